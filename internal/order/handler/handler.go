package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/order/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

// Service defines the order fulfillment operations.
type Service interface {
	Create(ctx context.Context, in models.CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Order, error)
	Update(ctx context.Context, orderID id.OrderID, in models.UpdateInput) (*models.Order, error)
	Delete(ctx context.Context, orderID id.OrderID) error
}

// Handler wires order endpoints to the fulfillment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts order endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/order", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /order.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateOrderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	order, err := h.service.Create(ctx, req.ParsedInput())
	if err != nil {
		h.logFailure(ctx, "order creation failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order placed",
		"request_id", requestID,
		"order_id", order.ID,
		"items", len(order.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteData(w, http.StatusCreated, FromOrder(order), "Order created successfully")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := httputil.QueryEnum(r, "status",
		string(models.StatusPending), string(models.StatusShipped),
		string(models.StatusDelivered), string(models.StatusCancelled))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
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
	orders, err := h.service.List(ctx, models.ListFilter{
		Status:   models.Status(status),
		Customer: httputil.QueryString(r, "customer"),
		From:     from,
		To:       to,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromOrders(orders), "")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	order, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromOrder(order), "")
}

// HandleUpdate handles PUT and PATCH /order/{id}; both are partial updates.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateOrderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	order, err := h.service.Update(ctx, orderID, req.ParsedInput())
	if err != nil {
		h.logFailure(ctx, "order update failed", requestID, err, "order_id", orderID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, FromOrder(order), "Order updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := id.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, orderID); err != nil {
		h.logFailure(ctx, "order deletion failed", requestcontext.RequestID(ctx), err, "order_id", orderID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Order deleted successfully")
}

// logFailure logs client errors at info and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error, attrs ...any) {
	args := append([]any{"request_id", requestID, "error", err}, attrs...)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.InfoContext(ctx, msg, args...)
}
