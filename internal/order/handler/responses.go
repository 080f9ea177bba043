package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/order/models"
)

type LineItemResponse struct {
	ProductID   string          `json:"productId,omitempty"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              string             `json:"id"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail,omitempty"`
	CustomerPhone   string             `json:"customerPhone,omitempty"`
	ShippingAddress string             `json:"shippingAddress,omitempty"`
	Items           []LineItemResponse `json:"items"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Status          string             `json:"status"`
	DeliveryDate    *time.Time         `json:"deliveryDate,omitempty"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedBy       string             `json:"createdBy,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func FromOrder(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID.String(),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Items:           make([]LineItemResponse, 0, len(o.Items)),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		DeliveryDate:    o.DeliveryDate,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if !o.CreatedBy.IsNil() {
		resp.CreatedBy = o.CreatedBy.String()
	}
	for _, li := range o.Items {
		item := LineItemResponse{
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Subtotal:    li.Subtotal(),
		}
		if !li.ProductID.IsNil() {
			item.ProductID = li.ProductID.String()
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func FromOrders(orders []*models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
