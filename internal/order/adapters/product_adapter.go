package adapters

import (
	"context"

	"warehouse/internal/order/ports"
	productmodels "warehouse/internal/product/models"
	productService "warehouse/internal/product/service"
	id "warehouse/pkg/domain"
)

// ProductAdapter implements ports.ProductPort by calling the product service
// in-process.
type ProductAdapter struct {
	products *productService.Service
}

func NewProductAdapter(products *productService.Service) ports.ProductPort {
	return &ProductAdapter{products: products}
}

func (a *ProductAdapter) Get(ctx context.Context, productID id.ProductID) (*ports.ProductRecord, error) {
	p, err := a.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toRecord(p), nil
}

func (a *ProductAdapter) FindByName(ctx context.Context, name string) (*ports.ProductRecord, error) {
	p, err := a.products.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toRecord(p), nil
}

func (a *ProductAdapter) AdjustStock(ctx context.Context, productID id.ProductID, delta int) error {
	_, err := a.products.AdjustStock(ctx, productID, delta)
	return err
}

func toRecord(p *productmodels.Product) *ports.ProductRecord {
	return &ports.ProductRecord{
		ID:    p.ID,
		Name:  p.Name,
		Stock: p.Stock,
		Price: p.Price,
	}
}
