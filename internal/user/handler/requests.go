package handler

import (
	"strings"

	"warehouse/internal/user/models"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

func (r *RegisterRequest) ToInput() models.RegisterInput {
	return models.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	return validation.Struct(r)
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

func (r *UpdateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for _, s := range []*string{r.Name, r.Email} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	return validation.Struct(r)
}

func (r *UpdateUserRequest) ToPatch() models.Patch {
	p := models.Patch{Name: r.Name, Email: r.Email, Password: r.Password}
	if r.Role != nil {
		role := models.Role(*r.Role)
		p.Role = &role
	}
	return p
}
