package ports

import (
	"context"

	"github.com/shopspring/decimal"

	id "warehouse/pkg/domain"
)

// ProductPort is the order flow's view of the product catalogue.
// Lookups return a CodeNotFound domain error for unknown products; a
// decrement past zero returns CodeInsufficientStock.
type ProductPort interface {
	Get(ctx context.Context, productID id.ProductID) (*ProductRecord, error)
	FindByName(ctx context.Context, name string) (*ProductRecord, error)
	AdjustStock(ctx context.Context, productID id.ProductID, delta int) error
}

// ProductRecord is the subset of a product the order flow needs.
type ProductRecord struct {
	ID    id.ProductID
	Name  string
	Stock int
	Price decimal.Decimal
}
