package audit

import (
	"context"

	"warehouse/pkg/requestcontext"
)

// NewEvent builds an event for action on resource, filling the actor and
// client metadata from the request context.
func NewEvent(ctx context.Context, action AuditEvent, resource, resourceID string) Event {
	return Event{
		Category:   action.Category(),
		UserID:     requestcontext.UserID(ctx),
		Action:     string(action),
		Resource:   resource,
		ResourceID: resourceID,
		RequestID:  requestcontext.RequestID(ctx),
		ClientIP:   requestcontext.ClientIP(ctx),
		Device:     requestcontext.DeviceName(ctx),
	}
}
