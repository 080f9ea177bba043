package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/notification/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, notificationID id.NotificationID) error
	BulkDelete(ctx context.Context, ids []id.NotificationID, readOnly bool) (int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/notification", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Delete("/", h.HandleBulkDelete)
		r.Patch("/read-all", h.HandleMarkAllRead)
		r.Put("/{id}", h.HandleMarkRead)
		r.Patch("/{id}", h.HandleMarkRead)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	read, err := httputil.QueryBool(r, "read")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	category, err := httputil.QueryEnum(r, "category", "task", "order", "inventory", "expense", "system")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	typ, err := httputil.QueryEnum(r, "type", "alert", "success", "info", "warning")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), models.ListFilter{
		Read:     read,
		Category: models.Category(category),
		Type:     models.Type(typ),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, FromNotification(n))
	}
	httputil.WriteData(w, http.StatusOK, out, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateNotificationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	n, err := h.service.Create(ctx, req.ToNotification())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, FromNotification(n), "Notification created successfully")
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[MarkReadRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	n, err := h.service.MarkRead(ctx, notificationID, req.Value())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromNotification(n), "Notification updated successfully")
}

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, CountResponse{Count: n}, "All notifications marked as read")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Notification deleted successfully")
}

// HandleBulkDelete accepts an optional body; an absent body means "no ids".
func (h *Handler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	readOnly, err := httputil.QueryBool(r, "read")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req BulkDeleteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.BulkDelete(ctx, req.ParsedIDs(), readOnly != nil && *readOnly)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, CountResponse{Count: n}, "Notifications deleted successfully")
}
