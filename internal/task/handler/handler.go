package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/task/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in models.CreateInput) (*models.Task, error)
	Get(ctx context.Context, taskID id.TaskID) (*models.Task, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, taskID id.TaskID, patch models.Patch) (*models.Task, error)
	Delete(ctx context.Context, taskID id.TaskID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/task", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status, err := httputil.QueryEnum(r, "status", "pending", "in-progress", "completed")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	priority, err := httputil.QueryEnum(r, "priority", "low", "medium", "high")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := models.ListFilter{Status: models.Status(status), Priority: models.Priority(priority)}
	if raw := httputil.QueryString(r, "assignedTo"); raw != "" {
		assignee, err := id.ParseEmployeeID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.AssignedTo = &assignee
	}
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromTasks(list), "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateTaskRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	t, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.logger.InfoContext(ctx, "task creation failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, FromTask(t), "Task created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	taskID, err := id.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	t, err := h.service.Get(r.Context(), taskID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromTask(t), "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID, err := id.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	t, err := h.service.Update(ctx, taskID, req.ParsedPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromTask(t), "Task updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	taskID, err := id.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), taskID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Task deleted successfully")
}
