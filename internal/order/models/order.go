package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	id "warehouse/pkg/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts the order lifecycle states. Any state may follow any
// other on update.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// LineItem is one product line of an order. Items imported from older records
// may lack a ProductID and are then matched by ProductName.
type LineItem struct {
	ProductID   id.ProductID    `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Subtotal is quantity times unit price.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID              id.OrderID      `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       id.UserID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ItemsTotal sums the line subtotals.
func ItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// CreateInput is a validated order creation command.
type CreateInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []LineItem
	TotalAmount     *decimal.Decimal
	Status          Status
	DeliveryDate    *time.Time
	PaymentMethod   string
	Notes           string
}

// UpdateInput is a partial order update. A non-nil Items replaces the line
// items and moves stock accordingly.
type UpdateInput struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	ShippingAddress *string
	Items           []LineItem
	ReplaceItems    bool
	TotalAmount     *decimal.Decimal
	Status          *Status
	DeliveryDate    *time.Time
	PaymentMethod   *string
	Notes           *string
}

// Apply copies the scalar fields of in onto o. Items and totals are handled
// by the fulfillment flow.
func (in UpdateInput) Apply(o *Order) {
	if in.CustomerName != nil {
		o.CustomerName = *in.CustomerName
	}
	if in.CustomerEmail != nil {
		o.CustomerEmail = *in.CustomerEmail
	}
	if in.CustomerPhone != nil {
		o.CustomerPhone = *in.CustomerPhone
	}
	if in.ShippingAddress != nil {
		o.ShippingAddress = *in.ShippingAddress
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.DeliveryDate != nil {
		d := *in.DeliveryDate
		o.DeliveryDate = &d
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
}

type ListFilter struct {
	Status   Status
	Customer string
	From     *time.Time
	To       *time.Time
}
