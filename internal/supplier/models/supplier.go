package models

import (
	"time"

	productmodels "warehouse/internal/product/models"
	id "warehouse/pkg/domain"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Supplier struct {
	ID            id.SupplierID `json:"id"`
	Name          string        `json:"name"`
	ContactPerson string        `json:"contactPerson,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Patch carries the optional fields of a partial update.
type Patch struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Status        *Status
}

func (pt Patch) Apply(s *Supplier) {
	if pt.Name != nil {
		s.Name = *pt.Name
	}
	if pt.ContactPerson != nil {
		s.ContactPerson = *pt.ContactPerson
	}
	if pt.Email != nil {
		s.Email = *pt.Email
	}
	if pt.Phone != nil {
		s.Phone = *pt.Phone
	}
	if pt.Address != nil {
		s.Address = *pt.Address
	}
	if pt.Status != nil {
		s.Status = *pt.Status
	}
}

// Details is a supplier together with the products that reference it.
type Details struct {
	*Supplier
	Products []*productmodels.Product
}
