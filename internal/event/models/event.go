package models

import (
	"time"

	id "warehouse/pkg/domain"
)

type Type string

const (
	TypeMeeting  Type = "meeting"
	TypeDelivery Type = "delivery"
	TypeReminder Type = "reminder"
	TypeOther    Type = "other"
)

// Event is a calendar entry. End is never before Start.
type Event struct {
	ID          id.EventID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	AllDay      bool       `json:"allDay"`
	Type        Type       `json:"type"`
	Location    string     `json:"location,omitempty"`
	Color       string     `json:"color,omitempty"`
	CreatedBy   id.UserID  `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Patch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	AllDay      *bool
	Type        *Type
	Location    *string
	Color       *string
}

func (p Patch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.AllDay != nil {
		e.AllDay = *p.AllDay
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
}

// ListFilter selects events overlapping [From, To]. Either bound may be nil.
type ListFilter struct {
	From *time.Time
	To   *time.Time
	Type Type
}
