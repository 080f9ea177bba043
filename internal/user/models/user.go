package models

import (
	"time"

	id "warehouse/pkg/domain"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a login identity, separate from the Employee staff record.
type User struct {
	ID           id.UserID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Patch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
