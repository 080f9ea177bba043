package handler

import (
	"time"

	"warehouse/internal/notification/models"
)

// NotificationResponse omits the internal idempotency key.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Priority  string    `json:"priority"`
	Category  string    `json:"category"`
	ProductID string    `json:"productId,omitempty"`
	OrderID   string    `json:"orderId,omitempty"`
	TaskID    string    `json:"taskId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromNotification(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		Priority:  string(n.Priority),
		Category:  string(n.Category),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.ProductID != nil {
		resp.ProductID = n.ProductID.String()
	}
	if n.OrderID != nil {
		resp.OrderID = n.OrderID.String()
	}
	if n.TaskID != nil {
		resp.TaskID = n.TaskID.String()
	}
	return resp
}

type CountResponse struct {
	Count int `json:"count"`
}
