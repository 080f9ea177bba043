package models

import (
	"time"

	id "warehouse/pkg/domain"
)

type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "in-progress"
	ColumnReview     Column = "review"
	ColumnDone       Column = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a card on the kanban board. Cards within a column are ordered by
// Position.
type Task struct {
	ID          id.KanbanTaskID `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Column      Column          `json:"column"`
	Position    int             `json:"position"`
	Priority    Priority        `json:"priority"`
	AssignedTo  *id.EmployeeID  `json:"assignedTo,omitempty"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	Title       string
	Description string
	Column      Column
	Position    *int
	Priority    Priority
	AssignedTo  *id.EmployeeID
	Tags        []string
}

type Patch struct {
	Title         *string
	Description   *string
	Column        *Column
	Position      *int
	Priority      *Priority
	AssignedTo    *id.EmployeeID
	ClearAssignee bool
	Tags          []string
}

func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Column != nil {
		t.Column = *p.Column
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearAssignee {
		t.AssignedTo = nil
	} else if p.AssignedTo != nil {
		t.AssignedTo = p.AssignedTo
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
}

type ListFilter struct {
	Column Column
}
