package service

import (
	"context"
	"errors"
	"log/slog"

	"warehouse/internal/event/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, eventID id.EventID) error
}

type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	if err := checkRange(e); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	e.ID = id.NewEventID()
	if e.Type == "" {
		e.Type = models.TypeOther
	}
	e.CreatedBy = requestcontext.UserID(ctx)
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.store.Create(ctx, e); err != nil {
		return nil, translate(err, "failed to create event")
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, translate(err, "failed to load event")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Event, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, dErrors.New(dErrors.CodeValidation, "endDate must not be before startDate")
	}
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events")
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, eventID id.EventID, patch models.Patch) (*models.Event, error) {
	e, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, translate(err, "failed to load event")
	}
	patch.Apply(e)
	if err := checkRange(e); err != nil {
		return nil, err
	}
	e.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, e); err != nil {
		return nil, translate(err, "failed to update event")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, eventID id.EventID) error {
	if err := s.store.Delete(ctx, eventID); err != nil {
		return translate(err, "failed to delete event")
	}
	return nil
}

func checkRange(e *models.Event) error {
	if e.End.Before(e.Start) {
		return dErrors.New(dErrors.CodeValidation, "end must not be before start")
	}
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "event not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
