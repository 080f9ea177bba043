package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "warehouse/pkg/domain"
)

type Type string

const (
	TypeSalary      Type = "salary"
	TypeOperational Type = "operational"
	TypeInventory   Type = "inventory"
	TypeOther       Type = "other"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

type Expense struct {
	ID          id.ExpenseID    `json:"id"`
	Title       string          `json:"title"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	Date        time.Time       `json:"date"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Employee    *id.EmployeeID  `json:"employee,omitempty"`
	CreatedBy   *id.EmployeeID  `json:"createdBy,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RefreshStatus marks an unpaid expense overdue once its due date has passed
// and returns an overdue one to pending when the due date moves forward.
func (e *Expense) RefreshStatus(now time.Time) {
	if e.Status == StatusPaid || e.DueDate == nil {
		return
	}
	if e.DueDate.Before(now) {
		e.Status = StatusOverdue
	} else if e.Status == StatusOverdue {
		e.Status = StatusPending
	}
}

type CreateInput struct {
	Title       string
	Type        Type
	Amount      decimal.Decimal
	Status      Status
	Date        *time.Time
	DueDate     *time.Time
	Employee    *id.EmployeeID
	CreatedBy   *id.EmployeeID
	Description string
}

type Patch struct {
	Title       *string
	Type        *Type
	Amount      *decimal.Decimal
	Status      *Status
	Date        *time.Time
	DueDate     *time.Time
	Employee    *id.EmployeeID
	Description *string
}

func (p Patch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.DueDate != nil {
		e.DueDate = p.DueDate
	}
	if p.Employee != nil {
		e.Employee = p.Employee
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}

type ListFilter struct {
	Type   Type
	Status Status
	From   *time.Time
	To     *time.Time
}

// Summary totals expenses overall and per type and status.
type Summary struct {
	Count    int                        `json:"count"`
	Total    decimal.Decimal            `json:"total"`
	ByType   map[Type]decimal.Decimal   `json:"byType"`
	ByStatus map[Status]decimal.Decimal `json:"byStatus"`
}

func Summarize(list []*Expense) Summary {
	s := Summary{
		Total:    decimal.Zero,
		ByType:   map[Type]decimal.Decimal{},
		ByStatus: map[Status]decimal.Decimal{},
	}
	for _, e := range list {
		s.Count++
		s.Total = s.Total.Add(e.Amount)
		s.ByType[e.Type] = s.ByType[e.Type].Add(e.Amount)
		s.ByStatus[e.Status] = s.ByStatus[e.Status].Add(e.Amount)
	}
	return s
}
