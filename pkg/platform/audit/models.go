package audit

import (
	"context"
	"time"

	id "warehouse/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers authentication outcomes and token revocation.
	CategorySecurity EventCategory = "security"
	// CategoryInventory covers anything that moves stock.
	CategoryInventory EventCategory = "inventory"
	// CategoryOperations covers routine record changes.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory `json:"category"`
	Timestamp  time.Time     `json:"timestamp"`
	UserID     id.UserID     `json:"userId"`
	Action     string        `json:"action"`
	Resource   string        `json:"resource,omitempty"`
	ResourceID string        `json:"resourceId,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	RequestID  string        `json:"requestId,omitempty"`
	ClientIP   string        `json:"clientIp,omitempty"`
	Device     string        `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventUserRegistered AuditEvent = "user_registered"
	EventUserLoggedIn   AuditEvent = "user_logged_in"
	EventUserLoggedOut  AuditEvent = "user_logged_out"
	EventAuthFailed     AuditEvent = "auth_failed"
	EventUserDeleted    AuditEvent = "user_deleted"

	EventOrderCreated     AuditEvent = "order_created"
	EventOrderUpdated     AuditEvent = "order_updated"
	EventOrderDeleted     AuditEvent = "order_deleted"
	EventStockCompensated AuditEvent = "stock_compensated"

	EventEmployeeCreated AuditEvent = "employee_created"
	EventEmployeeDeleted AuditEvent = "employee_deleted"

	EventTaskAssigned  AuditEvent = "task_assigned"
	EventTaskCompleted AuditEvent = "task_completed"

	EventExpenseCreated AuditEvent = "expense_created"
	EventExpenseDeleted AuditEvent = "expense_deleted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserRegistered: CategorySecurity,
	EventUserLoggedIn:   CategorySecurity,
	EventUserLoggedOut:  CategorySecurity,
	EventAuthFailed:     CategorySecurity,
	EventUserDeleted:    CategorySecurity,

	EventOrderCreated:     CategoryInventory,
	EventOrderUpdated:     CategoryInventory,
	EventOrderDeleted:     CategoryInventory,
	EventStockCompensated: CategoryInventory,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists events and answers per-user queries.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Sink receives a copy of every persisted event (e.g. a Kafka topic).
type Sink interface {
	Append(ctx context.Context, event Event) error
}
