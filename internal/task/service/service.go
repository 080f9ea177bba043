package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	notificationModels "warehouse/internal/notification/models"
	"warehouse/internal/task/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/platform/strings"
	"warehouse/pkg/requestcontext"
)

const unknownEmployee = "Unknown Employee"

type Store interface {
	Create(ctx context.Context, t *models.Task) error
	FindByID(ctx context.Context, taskID id.TaskID) (*models.Task, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, taskID id.TaskID) error
}

// EmployeeDirectory resolves task assignees.
type EmployeeDirectory interface {
	Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error)
	DisplayName(ctx context.Context, employeeID id.EmployeeID) (string, error)
}

// Notifier stores a notification unless one with the same idempotency key
// already exists.
type Notifier interface {
	Notify(ctx context.Context, n *notificationModels.Notification) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	employees      EmployeeDirectory
	notifier       Notifier
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func New(store Store, employees EmployeeDirectory, opts ...Option) *Service {
	s := &Service{store: store, employees: employees, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in models.CreateInput) (*models.Task, error) {
	if err := s.checkAssignee(ctx, in.AssignedTo); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	t := &models.Task{
		ID:          id.NewTaskID(),
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
		Tags:        strings.Tags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, translate(err, "failed to create task")
	}

	s.notifyAssigned(ctx, t)
	if t.Status == models.StatusCompleted {
		s.notifyCompleted(ctx, t)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, taskID id.TaskID) (*models.Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, translate(err, "failed to load task")
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
	}
	return list, nil
}

// Update applies patch. A changed assignee triggers an assignment
// notification and a transition into completed triggers the completion one.
func (s *Service) Update(ctx context.Context, taskID id.TaskID, patch models.Patch) (*models.Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, translate(err, "failed to load task")
	}
	if patch.AssignedTo != nil && *patch.AssignedTo != t.AssignedTo {
		if err := s.checkAssignee(ctx, *patch.AssignedTo); err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		patch.Tags = strings.Tags(patch.Tags)
	}
	previousAssignee, previousStatus := t.AssignedTo, t.Status

	patch.Apply(t)
	t.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, t); err != nil {
		return nil, translate(err, "failed to update task")
	}

	if t.AssignedTo != previousAssignee {
		s.notifyAssigned(ctx, t)
	}
	if previousStatus != models.StatusCompleted && t.Status == models.StatusCompleted {
		s.notifyCompleted(ctx, t)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, taskID id.TaskID) error {
	if err := s.store.Delete(ctx, taskID); err != nil {
		return translate(err, "failed to delete task")
	}
	return nil
}

func (s *Service) checkAssignee(ctx context.Context, employeeID id.EmployeeID) error {
	if employeeID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "assignedTo is required")
	}
	if s.employees == nil {
		return nil
	}
	ok, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "assignedTo does not reference an existing employee")
	}
	return nil
}

func (s *Service) assigneeName(ctx context.Context, employeeID id.EmployeeID) string {
	if s.employees == nil {
		return unknownEmployee
	}
	name, err := s.employees.DisplayName(ctx, employeeID)
	if err != nil || name == "" {
		return unknownEmployee
	}
	return name
}

func (s *Service) notifyAssigned(ctx context.Context, t *models.Task) {
	name := s.assigneeName(ctx, t.AssignedTo)
	s.notify(ctx, t, &notificationModels.Notification{
		Title:    "New Task Assigned",
		Message:  fmt.Sprintf("Task %q has been assigned to %s", t.Title, name),
		Type:     notificationModels.TypeInfo,
		Priority: notificationPriority(t.Priority),
		Category: notificationModels.CategoryTask,
		TaskID:   &t.ID,
	})
	s.emit(ctx, audit.EventTaskAssigned, t.ID)
}

func (s *Service) notifyCompleted(ctx context.Context, t *models.Task) {
	name := s.assigneeName(ctx, t.AssignedTo)
	s.notify(ctx, t, &notificationModels.Notification{
		Title:          "Task Completed",
		Message:        fmt.Sprintf("Task %q has been completed by %s", t.Title, name),
		Type:           notificationModels.TypeSuccess,
		Priority:       notificationModels.PriorityMedium,
		Category:       notificationModels.CategoryTask,
		TaskID:         &t.ID,
		IdempotencyKey: models.CompletionKey(t.Title),
	})
	s.emit(ctx, audit.EventTaskCompleted, t.ID)
}

// notify never fails the task request; errors are only logged.
func (s *Service) notify(ctx context.Context, t *models.Task, n *notificationModels.Notification) {
	if s.notifier == nil {
		return
	}
	created, err := s.notifier.Notify(ctx, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task notification",
			"request_id", requestcontext.RequestID(ctx),
			"task_id", t.ID.String(),
			"title", n.Title,
			"error", err,
		)
		return
	}
	if created {
		s.logger.InfoContext(ctx, "task notification created", "task_id", t.ID.String(), "title", n.Title)
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, taskID id.TaskID) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.NewEvent(ctx, action, "task", taskID.String())); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func notificationPriority(p models.Priority) notificationModels.Priority {
	switch p {
	case models.PriorityLow:
		return notificationModels.PriorityLow
	case models.PriorityHigh:
		return notificationModels.PriorityHigh
	}
	return notificationModels.PriorityMedium
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "task not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
