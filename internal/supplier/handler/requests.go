package handler

import (
	"strings"

	"warehouse/internal/supplier/models"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson" validate:"max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=50"`
	Address       string `json:"address" validate:"max=500"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateSupplierRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Status = strings.TrimSpace(r.Status)
	return validation.Struct(r)
}

func (r *CreateSupplierRequest) ToSupplier() *models.Supplier {
	return &models.Supplier{
		Name:          r.Name,
		ContactPerson: strings.TrimSpace(r.ContactPerson),
		Email:         r.Email,
		Phone:         strings.TrimSpace(r.Phone),
		Address:       strings.TrimSpace(r.Address),
		Status:        models.Status(r.Status),
	}
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contactPerson" validate:"omitempty,max=200"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateSupplierRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	return validation.Struct(r)
}

func (r *UpdateSupplierRequest) ToPatch() models.Patch {
	p := models.Patch{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
	}
	if r.Status != nil {
		st := models.Status(*r.Status)
		p.Status = &st
	}
	return p
}
