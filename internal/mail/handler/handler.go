package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/mail/service"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Send(ctx context.Context, in service.SendInput) (*service.Receipt, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/send-email", h.HandleSend)
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SendEmailRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	receipt, err := h.service.Send(ctx, req.ToInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "email send failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, receipt, "Email sent successfully")
}
