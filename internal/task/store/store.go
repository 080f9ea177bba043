package store

import (
	"context"

	"warehouse/internal/platform/docstore"
	"warehouse/internal/task/models"
	id "warehouse/pkg/domain"
)

const CollectionName = "tasks"

type Store struct {
	docs docstore.Collection[models.Task]
}

func New(docs docstore.Collection[models.Task]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Task](CollectionName))
}

func (s *Store) Create(ctx context.Context, t *models.Task) error {
	return s.docs.Insert(ctx, t.ID.String(), t)
}

func (s *Store) FindByID(ctx context.Context, taskID id.TaskID) (*models.Task, error) {
	return s.docs.Get(ctx, taskID.String())
}

// List returns tasks newest first.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	q := docstore.Query{}.OrderBy("createdAt", true)
	if filter.Status != "" {
		q = q.And(docstore.Eq("status", filter.Status))
	}
	if filter.Priority != "" {
		q = q.And(docstore.Eq("priority", filter.Priority))
	}
	if filter.AssignedTo != nil {
		q = q.And(docstore.Eq("assignedTo", filter.AssignedTo.String()))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, t *models.Task) error {
	return s.docs.Replace(ctx, t.ID.String(), t)
}

func (s *Store) Delete(ctx context.Context, taskID id.TaskID) error {
	return s.docs.Delete(ctx, taskID.String())
}
