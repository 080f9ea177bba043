package store

import (
	"context"
	"fmt"

	"warehouse/internal/platform/docstore"
	"warehouse/internal/product/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

// CollectionName is the docstore collection holding products.
const CollectionName = "products"

// Store persists products in a document collection.
type Store struct {
	docs docstore.Collection[models.Product]
}

// New wraps an existing collection.
func New(docs docstore.Collection[models.Product]) *Store {
	return &Store{docs: docs}
}

// NewInMemory returns a store backed by process memory.
func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Product](CollectionName))
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	return s.docs.Insert(ctx, p.ID.String(), p)
}

func (s *Store) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	return s.docs.Get(ctx, productID.String())
}

// FindByName returns the earliest product whose name matches case-insensitively.
func (s *Store) FindByName(ctx context.Context, name string) (*models.Product, error) {
	return s.docs.FindOne(ctx, docstore.Where(docstore.EqFold("name", name)))
}

func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error) {
	q := docstore.Query{}
	if filter.Category != "" {
		q = q.And(docstore.EqFold("category", filter.Category))
	}
	if filter.IsActive != nil {
		q = q.And(docstore.Eq("isActive", *filter.IsActive))
	}
	if filter.SupplierID != nil {
		q = q.And(docstore.Eq("supplierId", *filter.SupplierID))
	}
	if filter.Search != "" {
		q = q.And(docstore.ContainsFold("name", filter.Search))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) ListBySupplier(ctx context.Context, supplierID id.SupplierID) ([]*models.Product, error) {
	return s.docs.Find(ctx, docstore.Where(docstore.Eq("supplierId", supplierID)).OrderBy("name", false))
}

// Update applies fn to the current document under the collection's row lock,
// so concurrent stock adjustments are never overwritten by a stale copy.
func (s *Store) Update(ctx context.Context, productID id.ProductID, fn func(*models.Product) error) (*models.Product, error) {
	return s.docs.Update(ctx, productID.String(), fn)
}

// AdjustStock adds delta to the product's stock in a single atomic step.
// A decrement that would leave stock below zero is rejected with
// sentinel.ErrInsufficient and nothing is written.
func (s *Store) AdjustStock(ctx context.Context, productID id.ProductID, delta int) (*models.Product, error) {
	return s.docs.Update(ctx, productID.String(), func(p *models.Product) error {
		if p.Stock+delta < 0 {
			return fmt.Errorf("product %s has %d, adjust by %d: %w", productID, p.Stock, delta, sentinel.ErrInsufficient)
		}
		p.Stock += delta
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, productID id.ProductID) error {
	return s.docs.Delete(ctx, productID.String())
}
