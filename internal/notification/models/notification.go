package models

import (
	"time"

	id "warehouse/pkg/domain"
)

type Type string

const (
	TypeAlert   Type = "alert"
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Category string

const (
	CategoryTask      Category = "task"
	CategoryOrder     Category = "order"
	CategoryInventory Category = "inventory"
	CategoryExpense   Category = "expense"
	CategorySystem    Category = "system"
)

// Notification is an in-app message. IdempotencyKey, when set, is unique
// across all notifications and makes creation insert-if-absent.
type Notification struct {
	ID             id.NotificationID `json:"id"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Type           Type              `json:"type"`
	Read           bool              `json:"read"`
	Priority       Priority          `json:"priority"`
	Category       Category          `json:"category"`
	ProductID      *id.ProductID     `json:"productId,omitempty"`
	OrderID        *id.OrderID       `json:"orderId,omitempty"`
	TaskID         *id.TaskID        `json:"taskId,omitempty"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type ListFilter struct {
	Read     *bool
	Category Category
	Type     Type
}
