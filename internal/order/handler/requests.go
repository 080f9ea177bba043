package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"warehouse/internal/order/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/platform/validation"
)

// LineItemRequest is one element of "items".
type LineItemRequest struct {
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
}

// LineItems accepts either the "items" array or the older parallel arrays
// productIds / productName / productQuantity, which must line up index by index.
type LineItems struct {
	Items             []LineItemRequest `json:"items"`
	ProductIDs        []string          `json:"productIds"`
	ProductNames      []string          `json:"productName"`
	ProductQuantities []int             `json:"productQuantity"`
}

func (li LineItems) present() bool {
	return li.Items != nil || li.ProductIDs != nil || li.ProductNames != nil || li.ProductQuantities != nil
}

func (li LineItems) parse() ([]models.LineItem, error) {
	legacy := li.ProductIDs != nil || li.ProductNames != nil || li.ProductQuantities != nil
	if li.Items != nil && legacy {
		return nil, dErrors.New(dErrors.CodeValidation, "use either items or productIds/productQuantity, not both")
	}

	reqs := li.Items
	if legacy {
		n := len(li.ProductIDs)
		if len(li.ProductQuantities) != n || (li.ProductNames != nil && len(li.ProductNames) != n) {
			return nil, dErrors.New(dErrors.CodeValidation, "productIds, productName and productQuantity must have the same length")
		}
		reqs = make([]LineItemRequest, n)
		for i := range n {
			reqs[i] = LineItemRequest{ProductID: li.ProductIDs[i], Quantity: li.ProductQuantities[i]}
			if li.ProductNames != nil {
				reqs[i].ProductName = li.ProductNames[i]
			}
		}
	}

	if len(reqs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	if len(reqs) > 200 {
		return nil, dErrors.New(dErrors.CodeValidation, "items must have at most 200 entries")
	}

	items := make([]models.LineItem, 0, len(reqs))
	for i, r := range reqs {
		if strings.TrimSpace(r.ProductID) == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation, "items[%d].productId is required", i)
		}
		productID, err := id.ParseProductID(r.ProductID)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeValidation, "items[%d].productId is invalid", i)
		}
		if r.Quantity < 1 {
			return nil, dErrors.Newf(dErrors.CodeValidation, "items[%d].quantity must be at least 1", i)
		}
		item := models.LineItem{
			ProductID:   productID,
			ProductName: strings.TrimSpace(r.ProductName),
			Quantity:    r.Quantity,
		}
		if r.UnitPrice != nil {
			if r.UnitPrice.IsNegative() {
				return nil, dErrors.Newf(dErrors.CodeValidation, "items[%d].unitPrice must be greater than or equal to 0", i)
			}
			item.UnitPrice = *r.UnitPrice
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateOrderRequest is the body of POST /order.
type CreateOrderRequest struct {
	CustomerName    string           `json:"customerName" validate:"required,max=200"`
	CustomerEmail   string           `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   string           `json:"customerPhone" validate:"max=50"`
	ShippingAddress string           `json:"shippingAddress" validate:"max=500"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Status          string           `json:"status" validate:"omitempty,oneof=pending shipped delivered cancelled"`
	DeliveryDate    string           `json:"deliveryDate"`
	PaymentMethod   string           `json:"paymentMethod" validate:"max=50"`
	Notes           string           `json:"notes" validate:"max=2000"`
	LineItems

	parsed models.CreateInput
}

func (r *CreateOrderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.Status = strings.TrimSpace(r.Status)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.TotalAmount != nil && r.TotalAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "totalAmount must be greater than or equal to 0")
	}
	items, err := r.LineItems.parse()
	if err != nil {
		return err
	}
	delivery, err := httputil.ParseOptionalTime("deliveryDate", r.DeliveryDate)
	if err != nil {
		return err
	}

	r.parsed = models.CreateInput{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   strings.TrimSpace(r.CustomerPhone),
		ShippingAddress: strings.TrimSpace(r.ShippingAddress),
		Items:           items,
		TotalAmount:     r.TotalAmount,
		Status:          models.Status(r.Status),
		DeliveryDate:    delivery,
		PaymentMethod:   strings.TrimSpace(r.PaymentMethod),
		Notes:           r.Notes,
	}
	return nil
}

func (r *CreateOrderRequest) ParsedInput() models.CreateInput {
	return r.parsed
}

// UpdateOrderRequest is the body of PUT/PATCH /order/{id}. Sending items (in
// either shape) replaces the line items and moves stock.
type UpdateOrderRequest struct {
	CustomerName    *string          `json:"customerName" validate:"omitempty,max=200"`
	CustomerEmail   *string          `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   *string          `json:"customerPhone" validate:"omitempty,max=50"`
	ShippingAddress *string          `json:"shippingAddress" validate:"omitempty,max=500"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Status          *string          `json:"status" validate:"omitempty,oneof=pending shipped delivered cancelled"`
	DeliveryDate    *string          `json:"deliveryDate"`
	PaymentMethod   *string          `json:"paymentMethod" validate:"omitempty,max=50"`
	Notes           *string          `json:"notes" validate:"omitempty,max=2000"`
	LineItems

	parsed models.UpdateInput
}

func (r *UpdateOrderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.CustomerName != nil {
		*r.CustomerName = strings.TrimSpace(*r.CustomerName)
		if *r.CustomerName == "" {
			return dErrors.New(dErrors.CodeValidation, "customerName is required")
		}
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.TotalAmount != nil && r.TotalAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "totalAmount must be greater than or equal to 0")
	}

	in := models.UpdateInput{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		TotalAmount:     r.TotalAmount,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
	}
	if r.Status != nil {
		st := models.Status(*r.Status)
		in.Status = &st
	}
	if r.DeliveryDate != nil {
		t, err := httputil.ParseTime("deliveryDate", *r.DeliveryDate)
		if err != nil {
			return err
		}
		in.DeliveryDate = &t
	}
	if r.LineItems.present() {
		items, err := r.LineItems.parse()
		if err != nil {
			return err
		}
		in.Items = items
		in.ReplaceItems = true
	}
	r.parsed = in
	return nil
}

func (r *UpdateOrderRequest) ParsedInput() models.UpdateInput {
	return r.parsed
}
