package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/supplier/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, sup *models.Supplier) (*models.Supplier, error)
	Get(ctx context.Context, supplierID id.SupplierID) (*models.Details, error)
	List(ctx context.Context, status models.Status) ([]*models.Supplier, error)
	Update(ctx context.Context, supplierID id.SupplierID, patch models.Patch) (*models.Supplier, error)
	Delete(ctx context.Context, supplierID id.SupplierID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/supplier", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status, err := httputil.QueryEnum(r, "status", string(models.StatusActive), string(models.StatusInactive))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sups, err := h.service.List(r.Context(), models.Status(status))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, sups, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateSupplierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sup, err := h.service.Create(ctx, req.ToSupplier())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create supplier", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, sup, "Supplier created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	supplierID, err := id.ParseSupplierID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	details, err := h.service.Get(r.Context(), supplierID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromDetails(details), "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	supplierID, err := id.ParseSupplierID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateSupplierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sup, err := h.service.Update(ctx, supplierID, req.ToPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, sup, "Supplier updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	supplierID, err := id.ParseSupplierID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), supplierID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Supplier deleted successfully")
}
