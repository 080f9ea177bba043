package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/expense/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in models.CreateInput) (*models.Expense, error)
	Get(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Expense, error)
	Summary(ctx context.Context, filter models.ListFilter) (models.Summary, error)
	Update(ctx context.Context, expenseID id.ExpenseID, patch models.Patch) (*models.Expense, error)
	Delete(ctx context.Context, expenseID id.ExpenseID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/expense", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/summary", h.HandleSummary)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	typ, err := httputil.QueryEnum(r, "type", "salary", "operational", "inventory", "other")
	if err != nil {
		return models.ListFilter{}, err
	}
	status, err := httputil.QueryEnum(r, "status", "pending", "paid", "overdue")
	if err != nil {
		return models.ListFilter{}, err
	}
	from, err := httputil.QueryTime(r, "startDate")
	if err != nil {
		return models.ListFilter{}, err
	}
	to, err := httputil.QueryTime(r, "endDate")
	if err != nil {
		return models.ListFilter{}, err
	}
	return models.ListFilter{Type: models.Type(typ), Status: models.Status(status), From: from, To: to}, nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, list, "")
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, summary, "")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateExpenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.logger.InfoContext(ctx, "expense creation failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, e, "Expense created successfully")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.Get(r.Context(), expenseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, e, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateExpenseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Update(ctx, expenseID, req.ParsedPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, e, "Expense updated successfully")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	expenseID, err := id.ParseExpenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), expenseID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Expense deleted successfully")
}
