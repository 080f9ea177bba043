package handler

import (
	"strings"

	"warehouse/internal/employee/models"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Role       string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	Department string `json:"department" validate:"max=100"`
	Position   string `json:"position" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=50"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateEmployeeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Department = strings.TrimSpace(r.Department)
	return validation.Struct(r)
}

func (r *CreateEmployeeRequest) ToInput() models.CreateInput {
	return models.CreateInput{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Role:       models.Role(r.Role),
		Department: r.Department,
		Position:   strings.TrimSpace(r.Position),
		Phone:      strings.TrimSpace(r.Phone),
		Status:     models.Status(r.Status),
	}
}

type UpdateEmployeeRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin manager staff"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for _, s := range []*string{r.Name, r.Email, r.Department} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	return validation.Struct(r)
}

func (r *UpdateEmployeeRequest) ToPatch() models.Patch {
	p := models.Patch{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Department: r.Department,
		Position:   r.Position,
		Phone:      r.Phone,
	}
	if r.Role != nil {
		role := models.Role(*r.Role)
		p.Role = &role
	}
	if r.Status != nil {
		st := models.Status(*r.Status)
		p.Status = &st
	}
	return p
}
