package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"warehouse/internal/employee/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/password"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, e *models.Employee) error
	FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, employeeID id.EmployeeID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in models.CreateInput) (*models.Employee, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	e := &models.Employee{
		ID:           id.NewEmployeeID(),
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		Department:   in.Department,
		Position:     in.Position,
		Phone:        in.Phone,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if e.Role == "" {
		e.Role = models.RoleStaff
	}
	if e.Status == "" {
		e.Status = models.StatusActive
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, translate(err, "failed to create employee")
	}
	s.emit(ctx, audit.EventEmployeeCreated, e.ID)
	return e, nil
}

func (s *Service) Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	e, err := s.store.FindByID(ctx, employeeID)
	if err != nil {
		return nil, translate(err, "failed to load employee")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Employee, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, employeeID id.EmployeeID, patch models.Patch) (*models.Employee, error) {
	e, err := s.store.FindByID(ctx, employeeID)
	if err != nil {
		return nil, translate(err, "failed to load employee")
	}
	if patch.Password != nil {
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		e.PasswordHash = hash
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Email != nil {
		e.Email = strings.ToLower(*patch.Email)
	}
	if patch.Role != nil {
		e.Role = *patch.Role
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.Position != nil {
		e.Position = *patch.Position
	}
	if patch.Phone != nil {
		e.Phone = *patch.Phone
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	e.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, e); err != nil {
		return nil, translate(err, "failed to update employee")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, employeeID id.EmployeeID) error {
	if err := s.store.Delete(ctx, employeeID); err != nil {
		return translate(err, "failed to delete employee")
	}
	s.emit(ctx, audit.EventEmployeeDeleted, employeeID)
	return nil
}

// DisplayName resolves an employee's name for notifications.
func (s *Service) DisplayName(ctx context.Context, employeeID id.EmployeeID) (string, error) {
	e, err := s.Get(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

// Exists reports whether employeeID refers to a stored employee.
func (s *Service) Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error) {
	_, err := s.store.FindByID(ctx, employeeID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employee")
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, employeeID id.EmployeeID) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.NewEvent(ctx, action, "employee", employeeID.String())); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "employee not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "an employee with this email already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
