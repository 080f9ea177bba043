package store

import (
	"context"

	"warehouse/internal/event/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
)

const CollectionName = "events"

type Store struct {
	docs docstore.Collection[models.Event]
}

func New(docs docstore.Collection[models.Event]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Event](CollectionName))
}

func (s *Store) Create(ctx context.Context, e *models.Event) error {
	return s.docs.Insert(ctx, e.ID.String(), e)
}

func (s *Store) FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	return s.docs.Get(ctx, eventID.String())
}

// List returns events by start time. An event overlaps the range when it ends
// at or after From and starts at or before To.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Event, error) {
	q := docstore.Query{}.OrderBy("start", false)
	if filter.From != nil {
		q = q.And(docstore.Gte("end", *filter.From))
	}
	if filter.To != nil {
		q = q.And(docstore.Lte("start", *filter.To))
	}
	if filter.Type != "" {
		q = q.And(docstore.Eq("type", filter.Type))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, e *models.Event) error {
	return s.docs.Replace(ctx, e.ID.String(), e)
}

func (s *Store) Delete(ctx context.Context, eventID id.EventID) error {
	return s.docs.Delete(ctx, eventID.String())
}
