package models

import (
	"strings"
	"time"

	id "warehouse/pkg/domain"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

type Task struct {
	ID          id.TaskID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	AssignedTo  id.EmployeeID `json:"assignedTo"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Priority    Priority      `json:"priority"`
	Status      Status        `json:"status"`
	Tags        []string      `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CompletionKey identifies the single completion notification shared by all
// tasks with the same title.
func CompletionKey(title string) string {
	return "task-completed:" + strings.ToLower(strings.TrimSpace(title))
}

type CreateInput struct {
	Title       string
	Description string
	AssignedTo  id.EmployeeID
	DueDate     *time.Time
	Priority    Priority
	Status      Status
	Tags        []string
}

// Patch carries the fields supplied on a partial update. ClearDueDate drops
// the due date.
type Patch struct {
	Title        *string
	Description  *string
	AssignedTo   *id.EmployeeID
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
	Status       *Status
	Tags         []string
}

func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
}

type ListFilter struct {
	Status     Status
	Priority   Priority
	AssignedTo *id.EmployeeID
}
