package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/event/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	Get(ctx context.Context, eventID id.EventID) (*models.Event, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Event, error)
	Update(ctx context.Context, eventID id.EventID, patch models.Patch) (*models.Event, error)
	Delete(ctx context.Context, eventID id.EventID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/event", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	from, err := httputil.QueryTime(r, "startDate")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := httputil.QueryTime(r, "endDate")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	typ, err := httputil.QueryEnum(r, "type", "meeting", "delivery", "reminder", "other")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), models.ListFilter{From: from, To: to, Type: models.Type(typ)})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, list, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateEventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Create(ctx, req.ToEvent())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, e, "Event created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.Get(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, e, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := id.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateEventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Update(ctx, eventID, req.ParsedPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, e, "Event updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), eventID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Event deleted successfully")
}
