package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/employee/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in models.CreateInput) (*models.Employee, error)
	Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Employee, error)
	Update(ctx context.Context, employeeID id.EmployeeID, patch models.Patch) (*models.Employee, error)
	Delete(ctx context.Context, employeeID id.EmployeeID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/employee", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, err := httputil.QueryEnum(r, "role", "admin", "manager", "staff")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := httputil.QueryEnum(r, "status", "active", "inactive")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), models.ListFilter{
		Role:       models.Role(role),
		Department: httputil.QueryString(r, "department"),
		Status:     models.Status(status),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, FromEmployee(e))
	}
	httputil.WriteData(w, http.StatusOK, out, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateEmployeeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.logger.InfoContext(ctx, "employee creation failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, FromEmployee(e), "Employee created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.Get(r.Context(), employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromEmployee(e), "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateEmployeeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Update(ctx, employeeID, req.ToPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromEmployee(e), "Employee updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), employeeID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Employee deleted successfully")
}
