package handler

import (
	"strings"

	"warehouse/internal/event/models"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/platform/validation"
)

// CreateEventRequest is the body of POST /event. A missing end defaults to
// the start.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end"`
	AllDay      bool   `json:"allDay"`
	Type        string `json:"type" validate:"omitempty,oneof=meeting delivery reminder other"`
	Location    string `json:"location" validate:"max=200"`
	Color       string `json:"color" validate:"max=32"`

	event *models.Event
}

func (r *CreateEventRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Start = strings.TrimSpace(r.Start)
	if err := validation.Struct(r); err != nil {
		return err
	}
	start, err := httputil.ParseTime("start", r.Start)
	if err != nil {
		return err
	}
	end := start
	if raw := strings.TrimSpace(r.End); raw != "" {
		if end, err = httputil.ParseTime("end", raw); err != nil {
			return err
		}
	}
	if end.Before(start) {
		return dErrors.New(dErrors.CodeValidation, "end must not be before start")
	}
	r.event = &models.Event{
		Title:       r.Title,
		Description: strings.TrimSpace(r.Description),
		Start:       start,
		End:         end,
		AllDay:      r.AllDay,
		Type:        models.Type(r.Type),
		Location:    strings.TrimSpace(r.Location),
		Color:       strings.TrimSpace(r.Color),
	}
	return nil
}

func (r *CreateEventRequest) ToEvent() *models.Event {
	return r.event
}

type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	AllDay      *bool   `json:"allDay"`
	Type        *string `json:"type" validate:"omitempty,oneof=meeting delivery reminder other"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Color       *string `json:"color" validate:"omitempty,max=32"`

	patch models.Patch
}

func (r *UpdateEventRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	r.patch = models.Patch{
		Title:       r.Title,
		Description: r.Description,
		AllDay:      r.AllDay,
		Location:    r.Location,
		Color:       r.Color,
	}
	if r.Start != nil {
		start, err := httputil.ParseTime("start", strings.TrimSpace(*r.Start))
		if err != nil {
			return err
		}
		r.patch.Start = &start
	}
	if r.End != nil {
		end, err := httputil.ParseTime("end", strings.TrimSpace(*r.End))
		if err != nil {
			return err
		}
		r.patch.End = &end
	}
	if r.Type != nil {
		t := models.Type(*r.Type)
		r.patch.Type = &t
	}
	return nil
}

func (r *UpdateEventRequest) ParsedPatch() models.Patch {
	return r.patch
}
