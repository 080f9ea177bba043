package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/product/models"
)

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
	IsActive    bool            `json:"isActive"`
	SupplierID  string          `json:"supplierId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func FromProduct(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Stock:       p.Stock,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.SupplierID != nil {
		resp.SupplierID = p.SupplierID.String()
	}
	return resp
}

func FromProducts(products []*models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}
