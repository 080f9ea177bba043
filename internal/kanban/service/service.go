package service

import (
	"context"
	"errors"
	"log/slog"

	"warehouse/internal/kanban/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/platform/strings"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, t *models.Task) error
	FindByID(ctx context.Context, taskID id.KanbanTaskID) (*models.Task, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	CountInColumn(ctx context.Context, column models.Column) (int, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, taskID id.KanbanTaskID) error
}

type EmployeeChecker interface {
	Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error)
}

type Service struct {
	store     Store
	employees EmployeeChecker
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEmployeeChecker(c EmployeeChecker) Option {
	return func(s *Service) {
		s.employees = c
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends the card to the end of its column unless a position is given.
func (s *Service) Create(ctx context.Context, in models.CreateInput) (*models.Task, error) {
	if err := s.checkAssignee(ctx, in.AssignedTo); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	t := &models.Task{
		ID:          id.NewKanbanTaskID(),
		Title:       in.Title,
		Description: in.Description,
		Column:      in.Column,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		Tags:        strings.Tags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Column == "" {
		t.Column = models.ColumnTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if in.Position != nil {
		t.Position = *in.Position
	} else {
		n, err := s.store.CountInColumn(ctx, t.Column)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create kanban task")
		}
		t.Position = n
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, translate(err, "failed to create kanban task")
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, taskID id.KanbanTaskID) (*models.Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, translate(err, "failed to load kanban task")
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list kanban tasks")
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, taskID id.KanbanTaskID, patch models.Patch) (*models.Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, translate(err, "failed to load kanban task")
	}
	if !patch.ClearAssignee {
		if err := s.checkAssignee(ctx, patch.AssignedTo); err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		patch.Tags = strings.Tags(patch.Tags)
	}
	patch.Apply(t)
	t.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, t); err != nil {
		return nil, translate(err, "failed to update kanban task")
	}
	return t, nil
}

// Move places the card in column at position.
func (s *Service) Move(ctx context.Context, taskID id.KanbanTaskID, column models.Column, position int) (*models.Task, error) {
	t, err := s.Update(ctx, taskID, models.Patch{Column: &column, Position: &position})
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "kanban task moved", "task_id", taskID.String(), "column", column, "position", position)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, taskID id.KanbanTaskID) error {
	if err := s.store.Delete(ctx, taskID); err != nil {
		return translate(err, "failed to delete kanban task")
	}
	return nil
}

func (s *Service) checkAssignee(ctx context.Context, employeeID *id.EmployeeID) error {
	if employeeID == nil || s.employees == nil {
		return nil
	}
	ok, err := s.employees.Exists(ctx, *employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "assignedTo does not reference an existing employee")
	}
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "kanban task not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
