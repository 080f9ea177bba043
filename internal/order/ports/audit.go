package ports

import (
	"context"

	"warehouse/pkg/platform/audit"
)

type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
