package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"warehouse/internal/product/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

// CreateProductRequest is the body of POST /product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	SKU         string          `json:"sku" validate:"max=64"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=100"`
	Image       string          `json:"image" validate:"max=1024"`
	IsActive    *bool           `json:"isActive"`
	SupplierID  string          `json:"supplierId"`

	parsedSupplierID *id.SupplierID
}

func (r *CreateProductRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.SKU = strings.TrimSpace(r.SKU)
	r.Image = strings.TrimSpace(r.Image)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Price.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "price must be greater than or equal to 0")
	}
	if s := strings.TrimSpace(r.SupplierID); s != "" {
		sid, err := id.ParseSupplierID(s)
		if err != nil {
			return err
		}
		r.parsedSupplierID = &sid
	}
	return nil
}

// ToProduct builds the product to create. Active defaults to true.
func (r *CreateProductRequest) ToProduct() *models.Product {
	p := &models.Product{
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		IsActive:    true,
		SupplierID:  r.parsedSupplierID,
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

// UpdateProductRequest is the body of PUT/PATCH /product/{id}. Absent fields
// are left unchanged; an empty supplierId detaches the supplier.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	SKU         *string          `json:"sku" validate:"omitempty,max=64"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Image       *string          `json:"image" validate:"omitempty,max=1024"`
	IsActive    *bool            `json:"isActive"`
	SupplierID  *string          `json:"supplierId"`

	patch models.Patch
}

func (r *UpdateProductRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	trim(r.Name)
	trim(r.Category)
	trim(r.SKU)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Category != nil && *r.Category == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}
	if r.Price != nil && r.Price.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "price must be greater than or equal to 0")
	}

	r.patch = models.Patch{
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Stock:       r.Stock,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		IsActive:    r.IsActive,
	}
	if r.SupplierID != nil {
		raw := strings.TrimSpace(*r.SupplierID)
		if raw == "" {
			r.patch.ClearSupplier = true
		} else {
			sid, err := id.ParseSupplierID(raw)
			if err != nil {
				return err
			}
			r.patch.SupplierID = &sid
		}
	}
	return nil
}

// ParsedPatch returns the validated patch.
func (r *UpdateProductRequest) ParsedPatch() models.Patch {
	return r.patch
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
