package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"warehouse/internal/notification/metrics"
	"warehouse/internal/notification/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error)
	FindByID(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error)
	SetRead(ctx context.Context, notificationID id.NotificationID, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, notificationID id.NotificationID) error
	DeleteByIDs(ctx context.Context, ids []id.NotificationID) (int, error)
	DeleteRead(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a manually submitted notification.
func (s *Service) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	s.prepare(ctx, n)
	if err := s.store.Create(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create notification")
	}
	s.metrics.IncrementCreated(string(n.Category))
	return n, nil
}

// Notify inserts n unless a notification with the same idempotency key
// already exists. It reports whether a new notification was stored.
func (s *Service) Notify(ctx context.Context, n *models.Notification) (bool, error) {
	s.prepare(ctx, n)
	created, err := s.store.CreateIfAbsent(ctx, n)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create notification")
	}
	if !created {
		s.metrics.IncrementDeduplicated()
		s.logger.DebugContext(ctx, "notification already exists", "idempotency_key", n.IdempotencyKey)
		return false, nil
	}
	s.metrics.IncrementCreated(string(n.Category))
	return true, nil
}

func (s *Service) prepare(ctx context.Context, n *models.Notification) {
	now := requestcontext.Now(ctx)
	if n.ID.IsNil() {
		n.ID = id.NewNotificationID()
	}
	n.IdempotencyKey = strings.TrimSpace(n.IdempotencyKey)
	if n.Type == "" {
		n.Type = models.TypeInfo
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.Category == "" {
		n.Category = models.CategorySystem
	}
	n.CreatedAt = now
	n.UpdatedAt = now
}

func (s *Service) Get(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	n, err := s.store.FindByID(ctx, notificationID)
	if err != nil {
		return nil, translate(err, "failed to load notification")
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID id.NotificationID, read bool) (*models.Notification, error) {
	n, err := s.store.SetRead(ctx, notificationID, read)
	if err != nil {
		return nil, translate(err, "failed to update notification")
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	n, err := s.store.MarkAllRead(ctx)
	if err != nil {
		return n, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update notifications")
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, notificationID id.NotificationID) error {
	if err := s.store.Delete(ctx, notificationID); err != nil {
		return translate(err, "failed to delete notification")
	}
	return nil
}

// BulkDelete removes the given notifications. With no ids it removes every
// read notification when readOnly is set, otherwise all of them.
func (s *Service) BulkDelete(ctx context.Context, ids []id.NotificationID, readOnly bool) (int, error) {
	var (
		n   int
		err error
	)
	switch {
	case len(ids) > 0:
		n, err = s.store.DeleteByIDs(ctx, ids)
	case readOnly:
		n, err = s.store.DeleteRead(ctx)
	default:
		n, err = s.store.DeleteAll(ctx)
	}
	if err != nil {
		return n, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete notifications")
	}
	s.logger.InfoContext(ctx, "notifications deleted", "count", n, "read_only", readOnly)
	return n, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
