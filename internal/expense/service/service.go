package service

import (
	"context"
	"errors"
	"log/slog"

	"warehouse/internal/expense/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, e *models.Expense) error
	FindByID(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, expenseID id.ExpenseID) error
}

type EmployeeChecker interface {
	Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	employees      EmployeeChecker
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

func (s *Service) Create(ctx context.Context, in models.CreateInput) (*models.Expense, error) {
	now := requestcontext.Now(ctx)
	e := &models.Expense{
		ID:          id.NewExpenseID(),
		Title:       in.Title,
		Type:        in.Type,
		Amount:      in.Amount,
		Status:      in.Status,
		Date:        now,
		DueDate:     in.DueDate,
		Employee:    in.Employee,
		CreatedBy:   in.CreatedBy,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if e.Status == "" {
		e.Status = models.StatusPending
	}
	if err := s.check(ctx, e); err != nil {
		return nil, err
	}
	e.RefreshStatus(now)
	if err := s.store.Create(ctx, e); err != nil {
		return nil, translate(err, "failed to create expense")
	}
	s.emit(ctx, audit.EventExpenseCreated, e.ID)
	return e, nil
}

func (s *Service) Get(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error) {
	e, err := s.store.FindByID(ctx, expenseID)
	if err != nil {
		return nil, translate(err, "failed to load expense")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Expense, error) {
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expenses")
	}
	return list, nil
}

// Summary totals the expenses matching filter.
func (s *Service) Summary(ctx context.Context, filter models.ListFilter) (models.Summary, error) {
	list, err := s.List(ctx, filter)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summarize(list), nil
}

func (s *Service) Update(ctx context.Context, expenseID id.ExpenseID, patch models.Patch) (*models.Expense, error) {
	e, err := s.store.FindByID(ctx, expenseID)
	if err != nil {
		return nil, translate(err, "failed to load expense")
	}
	patch.Apply(e)
	if err := s.check(ctx, e); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	e.RefreshStatus(now)
	e.UpdatedAt = now
	if err := s.store.Update(ctx, e); err != nil {
		return nil, translate(err, "failed to update expense")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, expenseID id.ExpenseID) error {
	if err := s.store.Delete(ctx, expenseID); err != nil {
		return translate(err, "failed to delete expense")
	}
	s.emit(ctx, audit.EventExpenseDeleted, expenseID)
	return nil
}

// check enforces the salary fields and employee references on the merged
// record, so a patch switching the type to salary is validated too.
func (s *Service) check(ctx context.Context, e *models.Expense) error {
	if e.Type == models.TypeSalary {
		if e.DueDate == nil {
			return dErrors.New(dErrors.CodeValidation, "dueDate is required when type is salary")
		}
		if e.Employee == nil {
			return dErrors.New(dErrors.CodeValidation, "employee is required when type is salary")
		}
	}
	if err := s.checkEmployee(ctx, "employee", e.Employee); err != nil {
		return err
	}
	return s.checkEmployee(ctx, "createdBy", e.CreatedBy)
}

func (s *Service) checkEmployee(ctx context.Context, field string, employeeID *id.EmployeeID) error {
	if employeeID == nil || s.employees == nil {
		return nil
	}
	ok, err := s.employees.Exists(ctx, *employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.Newf(dErrors.CodeValidation, "%s does not reference an existing employee", field)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, expenseID id.ExpenseID) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.NewEvent(ctx, action, "expense", expenseID.String())); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "expense not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
