package handler

import (
	"strings"
	"time"

	"warehouse/internal/task/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/platform/validation"
)

type CreateTaskRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	AssignedTo  string   `json:"assignedTo" validate:"required"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Tags        []string `json:"tags" validate:"max=50"`

	assignedTo id.EmployeeID
	dueDate    *time.Time
}

func (r *CreateTaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.AssignedTo = strings.TrimSpace(r.AssignedTo)
	if err := validation.Struct(r); err != nil {
		return err
	}
	assignee, err := id.ParseEmployeeID(r.AssignedTo)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "assignedTo is invalid")
	}
	r.assignedTo = assignee
	if r.dueDate, err = httputil.ParseOptionalTime("dueDate", r.DueDate); err != nil {
		return err
	}
	return nil
}

func (r *CreateTaskRequest) ToInput() models.CreateInput {
	return models.CreateInput{
		Title:       r.Title,
		Description: strings.TrimSpace(r.Description),
		AssignedTo:  r.assignedTo,
		DueDate:     r.dueDate,
		Priority:    models.Priority(r.Priority),
		Status:      models.Status(r.Status),
		Tags:        r.Tags,
	}
}

// UpdateTaskRequest treats an empty dueDate string as "clear the due date".
type UpdateTaskRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  *string  `json:"assignedTo"`
	DueDate     *string  `json:"dueDate"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string  `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Tags        []string `json:"tags" validate:"max=50"`

	patch models.Patch
}

func (r *UpdateTaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	r.patch = models.Patch{Title: r.Title, Description: r.Description, Tags: r.Tags}
	if r.AssignedTo != nil {
		assignee, err := id.ParseEmployeeID(strings.TrimSpace(*r.AssignedTo))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "assignedTo is invalid")
		}
		r.patch.AssignedTo = &assignee
	}
	if r.DueDate != nil {
		if strings.TrimSpace(*r.DueDate) == "" {
			r.patch.ClearDueDate = true
		} else {
			due, err := httputil.ParseTime("dueDate", *r.DueDate)
			if err != nil {
				return err
			}
			r.patch.DueDate = &due
		}
	}
	if r.Priority != nil {
		p := models.Priority(*r.Priority)
		r.patch.Priority = &p
	}
	if r.Status != nil {
		st := models.Status(*r.Status)
		r.patch.Status = &st
	}
	return nil
}

func (r *UpdateTaskRequest) ParsedPatch() models.Patch {
	return r.patch
}
