package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/kanban/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in models.CreateInput) (*models.Task, error)
	Get(ctx context.Context, taskID id.KanbanTaskID) (*models.Task, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, taskID id.KanbanTaskID, patch models.Patch) (*models.Task, error)
	Move(ctx context.Context, taskID id.KanbanTaskID, column models.Column, position int) (*models.Task, error)
	Delete(ctx context.Context, taskID id.KanbanTaskID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/kanban-task", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Patch("/{id}/move", h.HandleMove)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	column, err := httputil.QueryEnum(r, "column", "todo", "in-progress", "review", "done")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), models.ListFilter{Column: models.Column(column)})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, list, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateKanbanTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	t, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, t, "Kanban task created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	taskID, err := id.ParseKanbanTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	t, err := h.service.Get(r.Context(), taskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID, err := id.ParseKanbanTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateKanbanTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	t, err := h.service.Update(ctx, taskID, req.ParsedPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t, "Kanban task updated successfully")
}

func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID, err := id.ParseKanbanTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[MoveRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	t, err := h.service.Move(ctx, taskID, models.Column(req.Column), *req.Position)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, t, "Kanban task moved successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	taskID, err := id.ParseKanbanTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), taskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Kanban task deleted successfully")
}
