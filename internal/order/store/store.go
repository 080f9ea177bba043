package store

import (
	"context"

	"warehouse/internal/order/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
)

const CollectionName = "orders"

type Store struct {
	docs docstore.Collection[models.Order]
}

func New(docs docstore.Collection[models.Order]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Order](CollectionName))
}

func (s *Store) Create(ctx context.Context, o *models.Order) error {
	return s.docs.Insert(ctx, o.ID.String(), o)
}

func (s *Store) FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	return s.docs.Get(ctx, orderID.String())
}

// List returns orders newest first.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Order, error) {
	q := docstore.Query{}.OrderBy("createdAt", true)
	if filter.Status != "" {
		q = q.And(docstore.Eq("status", filter.Status))
	}
	if filter.Customer != "" {
		q = q.And(docstore.ContainsFold("customerName", filter.Customer))
	}
	if filter.From != nil {
		q = q.And(docstore.Gte("createdAt", *filter.From))
	}
	if filter.To != nil {
		q = q.And(docstore.Lte("createdAt", *filter.To))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, o *models.Order) error {
	return s.docs.Replace(ctx, o.ID.String(), o)
}

func (s *Store) Delete(ctx context.Context, orderID id.OrderID) error {
	return s.docs.Delete(ctx, orderID.String())
}
