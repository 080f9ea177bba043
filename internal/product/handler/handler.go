package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/product/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

// Service is the product operations the handler depends on.
type Service interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Get(ctx context.Context, productID id.ProductID) (*models.Product, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error)
	Update(ctx context.Context, productID id.ProductID, patch models.Patch) (*models.Product, error)
	Delete(ctx context.Context, productID id.ProductID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts product endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/product", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	products, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromProducts(products), "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateProductRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.Create(ctx, req.ToProduct())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, FromProduct(p), "Product created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Get(ctx, productID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromProduct(p), "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProductRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.Update(ctx, productID, req.ParsedPatch())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			"request_id", requestID,
			"product_id", productID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromProduct(p), "Product updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, productID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Product deleted successfully")
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	filter := models.ListFilter{
		Category: httputil.QueryString(r, "category"),
		Search:   httputil.QueryString(r, "search"),
	}
	active, err := httputil.QueryBool(r, "isActive")
	if err != nil {
		return filter, err
	}
	filter.IsActive = active
	if raw := httputil.QueryString(r, "supplierId"); raw != "" {
		sid, err := id.ParseSupplierID(raw)
		if err != nil {
			return filter, err
		}
		filter.SupplierID = &sid
	}
	return filter, nil
}
