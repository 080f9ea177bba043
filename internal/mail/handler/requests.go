package handler

import (
	"strings"

	"warehouse/internal/mail/service"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/validation"
)

type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Name    string `json:"name" validate:"max=120"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (r *SendEmailRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.To = strings.TrimSpace(r.To)
	r.Message = strings.TrimSpace(r.Message)
	return validation.Struct(r)
}

func (r *SendEmailRequest) ToInput() service.SendInput {
	return service.SendInput{
		To:      r.To,
		Name:    r.Name,
		Subject: r.Subject,
		Message: r.Message,
	}
}
