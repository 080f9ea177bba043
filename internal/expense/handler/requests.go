package handler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/expense/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/platform/validation"
)

// CreateExpenseRequest is the body of POST /expense. Salary expenses must name
// the employee and a due date.
type CreateExpenseRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Type        string           `json:"type" validate:"required,oneof=salary operational inventory other"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      string           `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Date        string           `json:"date"`
	DueDate     string           `json:"dueDate" validate:"required_if=Type salary"`
	Employee    string           `json:"employee" validate:"required_if=Type salary"`
	CreatedBy   string           `json:"createdBy"`
	Description string           `json:"description" validate:"max=2000"`

	input models.CreateInput
}

func (r *CreateExpenseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.DueDate = strings.TrimSpace(r.DueDate)
	r.Employee = strings.TrimSpace(r.Employee)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Amount == nil {
		return dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	if r.Amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "amount must be greater than or equal to 0")
	}
	r.input = models.CreateInput{
		Title:       r.Title,
		Type:        models.Type(r.Type),
		Amount:      *r.Amount,
		Status:      models.Status(r.Status),
		Description: strings.TrimSpace(r.Description),
	}
	var err error
	if r.input.Date, err = httputil.ParseOptionalTime("date", r.Date); err != nil {
		return err
	}
	if r.input.DueDate, err = httputil.ParseOptionalTime("dueDate", r.DueDate); err != nil {
		return err
	}
	if r.input.Employee, err = parseEmployee("employee", r.Employee); err != nil {
		return err
	}
	if r.input.CreatedBy, err = parseEmployee("createdBy", r.CreatedBy); err != nil {
		return err
	}
	return nil
}

func (r *CreateExpenseRequest) ToInput() models.CreateInput {
	return r.input
}

type UpdateExpenseRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Type        *string          `json:"type" validate:"omitempty,oneof=salary operational inventory other"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Date        *string          `json:"date"`
	DueDate     *string          `json:"dueDate"`
	Employee    *string          `json:"employee"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`

	patch models.Patch
}

func (r *UpdateExpenseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "amount must be greater than or equal to 0")
	}
	r.patch = models.Patch{Title: r.Title, Amount: r.Amount, Description: r.Description}
	if r.Type != nil {
		t := models.Type(*r.Type)
		r.patch.Type = &t
	}
	if r.Status != nil {
		st := models.Status(*r.Status)
		r.patch.Status = &st
	}
	var err error
	if r.Date != nil {
		if r.patch.Date, err = parseRequiredTime("date", *r.Date); err != nil {
			return err
		}
	}
	if r.DueDate != nil {
		if r.patch.DueDate, err = parseRequiredTime("dueDate", *r.DueDate); err != nil {
			return err
		}
	}
	if r.Employee != nil {
		if r.patch.Employee, err = parseEmployee("employee", *r.Employee); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateExpenseRequest) ParsedPatch() models.Patch {
	return r.patch
}

func parseRequiredTime(field, raw string) (*time.Time, error) {
	t, err := httputil.ParseTime(field, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseEmployee(field, raw string) (*id.EmployeeID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := id.ParseEmployeeID(raw)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s is invalid", field)
	}
	return &v, nil
}
