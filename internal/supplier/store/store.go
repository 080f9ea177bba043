package store

import (
	"context"
	"errors"

	"warehouse/internal/platform/docstore"
	"warehouse/internal/supplier/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

const CollectionName = "suppliers"

type Store struct {
	docs docstore.Collection[models.Supplier]
}

func New(docs docstore.Collection[models.Supplier]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Supplier](CollectionName))
}

func (s *Store) Create(ctx context.Context, sup *models.Supplier) error {
	return s.docs.Insert(ctx, sup.ID.String(), sup)
}

func (s *Store) FindByID(ctx context.Context, supplierID id.SupplierID) (*models.Supplier, error) {
	return s.docs.Get(ctx, supplierID.String())
}

// List returns suppliers ordered by name, optionally restricted to one status.
func (s *Store) List(ctx context.Context, status models.Status) ([]*models.Supplier, error) {
	q := docstore.Query{}.OrderBy("name", false)
	if status != "" {
		q = q.And(docstore.Eq("status", status))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, sup *models.Supplier) error {
	return s.docs.Replace(ctx, sup.ID.String(), sup)
}

func (s *Store) Delete(ctx context.Context, supplierID id.SupplierID) error {
	return s.docs.Delete(ctx, supplierID.String())
}

// SupplierExists satisfies the product service's reference check.
func (s *Store) SupplierExists(ctx context.Context, supplierID id.SupplierID) (bool, error) {
	_, err := s.docs.Get(ctx, supplierID.String())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
