package store

import (
	"context"

	"warehouse/internal/platform/docstore"
	"warehouse/internal/user/models"
	id "warehouse/pkg/domain"
)

const CollectionName = "users"

func Options() []docstore.Option {
	return []docstore.Option{docstore.WithUnique("email")}
}

type Store struct {
	docs docstore.Collection[models.User]
}

func New(docs docstore.Collection[models.User]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.User](CollectionName, Options()...))
}

func (s *Store) Create(ctx context.Context, u *models.User) error {
	return s.docs.Insert(ctx, u.ID.String(), u)
}

func (s *Store) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.docs.Get(ctx, userID.String())
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.docs.FindOne(ctx, docstore.Where(docstore.EqFold("email", email)))
}

func (s *Store) List(ctx context.Context) ([]*models.User, error) {
	return s.docs.Find(ctx, docstore.Query{}.OrderBy("email", false))
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.docs.Count(ctx, docstore.Query{})
}

func (s *Store) Update(ctx context.Context, u *models.User) error {
	return s.docs.Replace(ctx, u.ID.String(), u)
}

func (s *Store) Delete(ctx context.Context, userID id.UserID) error {
	return s.docs.Delete(ctx, userID.String())
}
