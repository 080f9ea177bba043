package models

import (
	"time"

	id "warehouse/pkg/domain"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee is a staff record. PasswordHash is persisted but never rendered.
type Employee struct {
	ID           id.EmployeeID `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"passwordHash,omitempty"`
	Role         Role          `json:"role"`
	Department   string        `json:"department,omitempty"`
	Position     string        `json:"position,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Status       Status        `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type CreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       Role
	Department string
	Position   string
	Phone      string
	Status     Status
}

type Patch struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *Role
	Department *string
	Position   *string
	Phone      *string
	Status     *Status
}

type ListFilter struct {
	Role       Role
	Department string
	Status     Status
}
