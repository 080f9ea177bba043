package store

import (
	"context"

	"warehouse/internal/expense/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
)

const CollectionName = "expenses"

type Store struct {
	docs docstore.Collection[models.Expense]
}

func New(docs docstore.Collection[models.Expense]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Expense](CollectionName))
}

func (s *Store) Create(ctx context.Context, e *models.Expense) error {
	return s.docs.Insert(ctx, e.ID.String(), e)
}

func (s *Store) FindByID(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error) {
	return s.docs.Get(ctx, expenseID.String())
}

// List returns expenses by date, newest first. From and To bound the date
// inclusively.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Expense, error) {
	q := docstore.Query{}.OrderBy("date", true)
	if filter.Type != "" {
		q = q.And(docstore.Eq("type", filter.Type))
	}
	if filter.Status != "" {
		q = q.And(docstore.Eq("status", filter.Status))
	}
	if filter.From != nil {
		q = q.And(docstore.Gte("date", *filter.From))
	}
	if filter.To != nil {
		q = q.And(docstore.Lte("date", *filter.To))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, e *models.Expense) error {
	return s.docs.Replace(ctx, e.ID.String(), e)
}

func (s *Store) Delete(ctx context.Context, expenseID id.ExpenseID) error {
	return s.docs.Delete(ctx, expenseID.String())
}
