package store

import (
	"context"
	"errors"

	"warehouse/internal/notification/models"
	"warehouse/internal/platform/docstore"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

const CollectionName = "notifications"

func Options() []docstore.Option {
	return []docstore.Option{docstore.WithUnique("idempotencyKey")}
}

type Store struct {
	docs docstore.Collection[models.Notification]
}

func New(docs docstore.Collection[models.Notification]) *Store {
	return &Store{docs: docs}
}

func NewInMemory() *Store {
	return New(docstore.MustMemory[models.Notification](CollectionName, Options()...))
}

func (s *Store) Create(ctx context.Context, n *models.Notification) error {
	return s.docs.Insert(ctx, n.ID.String(), n)
}

// CreateIfAbsent inserts n unless another notification already carries its
// idempotency key. It reports whether n was inserted.
func (s *Store) CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	err := s.docs.Insert(ctx, n.ID.String(), n)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrAlreadyUsed) && n.IdempotencyKey != "":
		return false, nil
	default:
		return false, err
	}
}

func (s *Store) FindByID(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	return s.docs.Get(ctx, notificationID.String())
}

func (s *Store) FindByKey(ctx context.Context, key string) (*models.Notification, error) {
	return s.docs.FindOne(ctx, docstore.Where(docstore.EqFold("idempotencyKey", key)))
}

// List returns notifications newest first.
func (s *Store) List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	return s.docs.Find(ctx, listQuery(filter).OrderBy("createdAt", true))
}

func listQuery(filter models.ListFilter) docstore.Query {
	q := docstore.Query{}
	if filter.Read != nil {
		q = q.And(docstore.Eq("read", *filter.Read))
	}
	if filter.Category != "" {
		q = q.And(docstore.Eq("category", filter.Category))
	}
	if filter.Type != "" {
		q = q.And(docstore.Eq("type", filter.Type))
	}
	return q
}

func (s *Store) SetRead(ctx context.Context, notificationID id.NotificationID, read bool) (*models.Notification, error) {
	return s.docs.Update(ctx, notificationID.String(), func(n *models.Notification) error {
		n.Read = read
		return nil
	})
}

// MarkAllRead flags every unread notification as read and returns how many
// changed.
func (s *Store) MarkAllRead(ctx context.Context) (int, error) {
	unread, err := s.docs.Find(ctx, docstore.Where(docstore.Eq("read", false)))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, u := range unread {
		_, err := s.SetRead(ctx, u.ID, true)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, notificationID id.NotificationID) error {
	return s.docs.Delete(ctx, notificationID.String())
}

func (s *Store) DeleteByIDs(ctx context.Context, ids []id.NotificationID) (int, error) {
	raw := make([]string, 0, len(ids))
	for _, i := range ids {
		raw = append(raw, i.String())
	}
	return s.docs.DeleteMany(ctx, docstore.Where(docstore.In("id", raw)))
}

func (s *Store) DeleteRead(ctx context.Context) (int, error) {
	return s.docs.DeleteMany(ctx, docstore.Where(docstore.Eq("read", true)))
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	return s.docs.DeleteMany(ctx, docstore.Query{})
}
