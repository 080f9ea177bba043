package handler

import (
	"strings"

	"warehouse/internal/notification/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type CreateNotificationRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Message   string `json:"message" validate:"required,max=2000"`
	Type      string `json:"type" validate:"omitempty,oneof=alert success info warning"`
	Priority  string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category  string `json:"category" validate:"omitempty,oneof=task order inventory expense system"`
	ProductID string `json:"productId"`
	OrderID   string `json:"orderId"`
	TaskID    string `json:"taskId"`

	productID *id.ProductID
	orderID   *id.OrderID
	taskID    *id.TaskID
}

func (r *CreateNotificationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.ProductID != "" {
		v, err := id.ParseProductID(r.ProductID)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "productId is invalid")
		}
		r.productID = &v
	}
	if r.OrderID != "" {
		v, err := id.ParseOrderID(r.OrderID)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "orderId is invalid")
		}
		r.orderID = &v
	}
	if r.TaskID != "" {
		v, err := id.ParseTaskID(r.TaskID)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "taskId is invalid")
		}
		r.taskID = &v
	}
	return nil
}

func (r *CreateNotificationRequest) ToNotification() *models.Notification {
	return &models.Notification{
		Title:     r.Title,
		Message:   r.Message,
		Type:      models.Type(r.Type),
		Priority:  models.Priority(r.Priority),
		Category:  models.Category(r.Category),
		ProductID: r.productID,
		OrderID:   r.orderID,
		TaskID:    r.taskID,
	}
}

// MarkReadRequest defaults to marking the notification read when the body
// omits the flag.
type MarkReadRequest struct {
	Read *bool `json:"read"`
}

func (r *MarkReadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

func (r *MarkReadRequest) Value() bool {
	return r.Read == nil || *r.Read
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"max=500"`

	parsed []id.NotificationID
}

func (r *BulkDeleteRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	r.parsed = make([]id.NotificationID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		v, err := id.ParseNotificationID(raw)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "ids contains an invalid id: %q", raw)
		}
		r.parsed = append(r.parsed, v)
	}
	return nil
}

func (r *BulkDeleteRequest) ParsedIDs() []id.NotificationID {
	return r.parsed
}
