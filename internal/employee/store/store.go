package store

import (
	"context"

	"warehouse/internal/employee/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
)

const CollectionName = "employees"

// Options returns the collection options employees need: unique email.
func Options() []docstore.Option {
	return []docstore.Option{docstore.WithUnique("email")}
}

type Store struct {
	docs docstore.Collection[models.Employee]
}

func New(docs docstore.Collection[models.Employee]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Employee](CollectionName, Options()...))
}

// Create inserts e. A case-insensitive email clash returns sentinel.ErrAlreadyUsed.
func (s *Store) Create(ctx context.Context, e *models.Employee) error {
	return s.docs.Insert(ctx, e.ID.String(), e)
}

func (s *Store) FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	return s.docs.Get(ctx, employeeID.String())
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return s.docs.FindOne(ctx, docstore.Where(docstore.EqFold("email", email)))
}

func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Employee, error) {
	q := docstore.Query{}.OrderBy("name", false)
	if filter.Role != "" {
		q = q.And(docstore.Eq("role", filter.Role))
	}
	if filter.Department != "" {
		q = q.And(docstore.EqFold("department", filter.Department))
	}
	if filter.Status != "" {
		q = q.And(docstore.Eq("status", filter.Status))
	}
	return s.docs.Find(ctx, q)
}

func (s *Store) Update(ctx context.Context, e *models.Employee) error {
	return s.docs.Replace(ctx, e.ID.String(), e)
}

func (s *Store) Delete(ctx context.Context, employeeID id.EmployeeID) error {
	return s.docs.Delete(ctx, employeeID.String())
}
