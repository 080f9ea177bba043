package handler

import (
	"strings"

	"warehouse/internal/kanban/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type CreateKanbanTaskRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Column      string   `json:"column" validate:"omitempty,oneof=todo in-progress review done"`
	Position    *int     `json:"position" validate:"omitempty,gte=0"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  string   `json:"assignedTo"`
	Tags        []string `json:"tags" validate:"max=50"`

	assignedTo *id.EmployeeID
}

func (r *CreateKanbanTaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if err := validation.Struct(r); err != nil {
		return err
	}
	if raw := strings.TrimSpace(r.AssignedTo); raw != "" {
		v, err := id.ParseEmployeeID(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "assignedTo is invalid")
		}
		r.assignedTo = &v
	}
	return nil
}

func (r *CreateKanbanTaskRequest) ToInput() models.CreateInput {
	return models.CreateInput{
		Title:       r.Title,
		Description: strings.TrimSpace(r.Description),
		Column:      models.Column(r.Column),
		Position:    r.Position,
		Priority:    models.Priority(r.Priority),
		AssignedTo:  r.assignedTo,
		Tags:        r.Tags,
	}
}

// UpdateKanbanTaskRequest clears the assignee when assignedTo is "".
type UpdateKanbanTaskRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Column      *string  `json:"column" validate:"omitempty,oneof=todo in-progress review done"`
	Position    *int     `json:"position" validate:"omitempty,gte=0"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string  `json:"assignedTo"`
	Tags        []string `json:"tags" validate:"max=50"`

	patch models.Patch
}

func (r *UpdateKanbanTaskRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	r.patch = models.Patch{Title: r.Title, Description: r.Description, Position: r.Position, Tags: r.Tags}
	if r.Column != nil {
		c := models.Column(*r.Column)
		r.patch.Column = &c
	}
	if r.Priority != nil {
		p := models.Priority(*r.Priority)
		r.patch.Priority = &p
	}
	if r.AssignedTo != nil {
		raw := strings.TrimSpace(*r.AssignedTo)
		if raw == "" {
			r.patch.ClearAssignee = true
		} else {
			v, err := id.ParseEmployeeID(raw)
			if err != nil {
				return dErrors.New(dErrors.CodeValidation, "assignedTo is invalid")
			}
			r.patch.AssignedTo = &v
		}
	}
	return nil
}

func (r *UpdateKanbanTaskRequest) ParsedPatch() models.Patch {
	return r.patch
}

type MoveRequest struct {
	Column   string `json:"column" validate:"required,oneof=todo in-progress review done"`
	Position *int   `json:"position" validate:"required,gte=0"`
}

func (r *MoveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validation.Struct(r)
}
