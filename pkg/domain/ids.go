// Package domain defines typed identifiers shared across modules.
//
// Every entity has its own ID type over uuid.UUID so a ProductID can never be
// passed where an OrderID is expected. IDs encode as canonical UUID strings in
// JSON and in the document store.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "warehouse/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	EmployeeID     uuid.UUID
	ProductID      uuid.UUID
	SupplierID     uuid.UUID
	OrderID        uuid.UUID
	TaskID         uuid.UUID
	KanbanTaskID   uuid.UUID
	NotificationID uuid.UUID
	ExpenseID      uuid.UUID
	EventID        uuid.UUID
)

type uuidLike interface {
	~[16]byte
}

func parseID[T uuidLike](kind, raw string) (T, error) {
	var zero T
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zero, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	if len(raw) > 36 {
		return zero, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil || parsed == uuid.Nil {
		return zero, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	return T(parsed), nil
}

func marshalID[T uuidLike](v T) ([]byte, error) {
	return uuid.UUID(v).MarshalText()
}

func unmarshalID[T uuidLike](dst *T, b []byte) error {
	var u uuid.UUID
	if len(b) == 0 {
		*dst = T(uuid.Nil)
		return nil
	}
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*dst = T(u)
	return nil
}

func ParseUserID(s string) (UserID, error)         { return parseID[UserID]("user id", s) }
func ParseEmployeeID(s string) (EmployeeID, error) { return parseID[EmployeeID]("employee id", s) }
func ParseProductID(s string) (ProductID, error)   { return parseID[ProductID]("product id", s) }
func ParseSupplierID(s string) (SupplierID, error) { return parseID[SupplierID]("supplier id", s) }
func ParseOrderID(s string) (OrderID, error)       { return parseID[OrderID]("order id", s) }
func ParseTaskID(s string) (TaskID, error)         { return parseID[TaskID]("task id", s) }
func ParseKanbanTaskID(s string) (KanbanTaskID, error) {
	return parseID[KanbanTaskID]("kanban task id", s)
}
func ParseNotificationID(s string) (NotificationID, error) {
	return parseID[NotificationID]("notification id", s)
}
func ParseExpenseID(s string) (ExpenseID, error) { return parseID[ExpenseID]("expense id", s) }
func ParseEventID(s string) (EventID, error)     { return parseID[EventID]("event id", s) }

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewEmployeeID() EmployeeID         { return EmployeeID(uuid.New()) }
func NewProductID() ProductID           { return ProductID(uuid.New()) }
func NewSupplierID() SupplierID         { return SupplierID(uuid.New()) }
func NewOrderID() OrderID               { return OrderID(uuid.New()) }
func NewTaskID() TaskID                 { return TaskID(uuid.New()) }
func NewKanbanTaskID() KanbanTaskID     { return KanbanTaskID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }
func NewExpenseID() ExpenseID           { return ExpenseID(uuid.New()) }
func NewEventID() EventID               { return EventID(uuid.New()) }

func (i UserID) String() string                   { return uuid.UUID(i).String() }
func (i UserID) IsNil() bool                      { return uuid.UUID(i) == uuid.Nil }
func (i UserID) MarshalText() ([]byte, error)     { return marshalID(i) }
func (i *UserID) UnmarshalText(b []byte) error    { return unmarshalID(i, b) }
func (i EmployeeID) String() string               { return uuid.UUID(i).String() }
func (i EmployeeID) IsNil() bool                  { return uuid.UUID(i) == uuid.Nil }
func (i EmployeeID) MarshalText() ([]byte, error) { return marshalID(i) }
func (i *EmployeeID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i ProductID) String() string               { return uuid.UUID(i).String() }
func (i ProductID) IsNil() bool                  { return uuid.UUID(i) == uuid.Nil }
func (i ProductID) MarshalText() ([]byte, error) { return marshalID(i) }
func (i *ProductID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i SupplierID) String() string               { return uuid.UUID(i).String() }
func (i SupplierID) IsNil() bool                  { return uuid.UUID(i) == uuid.Nil }
func (i SupplierID) MarshalText() ([]byte, error) { return marshalID(i) }
func (i *SupplierID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i OrderID) String() string                { return uuid.UUID(i).String() }
func (i OrderID) IsNil() bool                   { return uuid.UUID(i) == uuid.Nil }
func (i OrderID) MarshalText() ([]byte, error)  { return marshalID(i) }
func (i *OrderID) UnmarshalText(b []byte) error { return unmarshalID(i, b) }
func (i TaskID) String() string                 { return uuid.UUID(i).String() }
func (i TaskID) IsNil() bool                    { return uuid.UUID(i) == uuid.Nil }
func (i TaskID) MarshalText() ([]byte, error)   { return marshalID(i) }
func (i *TaskID) UnmarshalText(b []byte) error  { return unmarshalID(i, b) }
func (i KanbanTaskID) String() string           { return uuid.UUID(i).String() }
func (i KanbanTaskID) IsNil() bool              { return uuid.UUID(i) == uuid.Nil }
func (i KanbanTaskID) MarshalText() ([]byte, error) {
	return marshalID(i)
}
func (i *KanbanTaskID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i NotificationID) String() string { return uuid.UUID(i).String() }
func (i NotificationID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i NotificationID) MarshalText() ([]byte, error) {
	return marshalID(i)
}
func (i *NotificationID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i ExpenseID) String() string               { return uuid.UUID(i).String() }
func (i ExpenseID) IsNil() bool                  { return uuid.UUID(i) == uuid.Nil }
func (i ExpenseID) MarshalText() ([]byte, error) { return marshalID(i) }
func (i *ExpenseID) UnmarshalText(b []byte) error {
	return unmarshalID(i, b)
}
func (i EventID) String() string                { return uuid.UUID(i).String() }
func (i EventID) IsNil() bool                   { return uuid.UUID(i) == uuid.Nil }
func (i EventID) MarshalText() ([]byte, error)  { return marshalID(i) }
func (i *EventID) UnmarshalText(b []byte) error { return unmarshalID(i, b) }
