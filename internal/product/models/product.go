package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "warehouse/pkg/domain"
)

// Product is a stock-keeping item. Stock is only ever mutated through an
// atomic adjustment or an explicit admin edit.
type Product struct {
	ID          id.ProductID    `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
	IsActive    bool            `json:"isActive"`
	SupplierID  *id.SupplierID  `json:"supplierId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListFilter narrows product listings. Zero values match everything.
type ListFilter struct {
	Category   string
	IsActive   *bool
	SupplierID *id.SupplierID
	Search     string
}

// Patch carries the optional fields of a partial update.
type Patch struct {
	Name        *string
	Description *string
	SKU         *string
	Stock       *int
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	IsActive    *bool
	SupplierID  *id.SupplierID
	// ClearSupplier detaches the product from its supplier.
	ClearSupplier bool
}

// Apply copies the set fields onto p.
func (pt Patch) Apply(p *Product) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.SKU != nil {
		p.SKU = *pt.SKU
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
	if pt.IsActive != nil {
		p.IsActive = *pt.IsActive
	}
	switch {
	case pt.ClearSupplier:
		p.SupplierID = nil
	case pt.SupplierID != nil:
		sid := *pt.SupplierID
		p.SupplierID = &sid
	}
}
