package store

import (
	"context"

	"warehouse/internal/kanban/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
)

const CollectionName = "kanban_tasks"

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

func (s *Store) FindByID(ctx context.Context, taskID id.KanbanTaskID) (*models.Task, error) {
	return s.docs.Get(ctx, taskID.String())
}

// List orders cards by position.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	q := docstore.Query{}.OrderBy("position", false)
	if filter.Column != "" {
		q = q.And(docstore.Eq("column", filter.Column))
	}
	return s.docs.Find(ctx, q)
}

// CountInColumn is used to append new cards at the end of a column.
func (s *Store) CountInColumn(ctx context.Context, column models.Column) (int, error) {
	return s.docs.Count(ctx, docstore.Where(docstore.Eq("column", column)))
}

func (s *Store) Update(ctx context.Context, t *models.Task) error {
	return s.docs.Replace(ctx, t.ID.String(), t)
}

func (s *Store) Delete(ctx context.Context, taskID id.KanbanTaskID) error {
	return s.docs.Delete(ctx, taskID.String())
}
