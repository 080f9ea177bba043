package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"warehouse/internal/order/lock"
	"warehouse/internal/order/metrics"
	"warehouse/internal/order/models"
	"warehouse/internal/order/ports"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

const lookupConcurrency = 8

type Store interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, orderID id.OrderID) error
}

// Service runs the order fulfillment flow: stock is validated for every line
// before anything is written, decremented after the order is persisted, and
// restored when line items are replaced or the order is deleted.
type Service struct {
	store    Store
	products ports.ProductPort
	locker   lock.Locker
	audit    ports.AuditPort
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPort) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the process-local order lock, e.g. with a Redis lock
// shared by several replicas.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, products ports.ProductPort, opts ...Option) *Service {
	s := &Service{
		store:    store,
		products: products,
		locker:   lock.NewMemory(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("warehouse/order"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates stock for every line, persists the order and then
// decrements each product. If a decrement loses a race with another order,
// the decrements already applied are reversed and the order is removed.
func (s *Service) Create(ctx context.Context, in models.CreateInput) (_ *models.Order, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.Int("order.items", len(in.Items)),
	))
	defer func() { s.finish(span, "create", start, err) }()

	if len(in.Items) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one item is required")
	}
	items, err := s.checkStock(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	order := &models.Order{
		ID:              id.NewOrderID(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		Items:           items,
		TotalAmount:     models.ItemsTotal(items),
		Status:          in.Status,
		DeliveryDate:    in.DeliveryDate,
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		CreatedBy:       requestcontext.UserID(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.TotalAmount != nil {
		order.TotalAmount = *in.TotalAmount
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	if err := s.store.Create(ctx, order); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create order")
	}

	if err := s.decrement(ctx, order.ID, items); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), order.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove order after stock rollback",
				"order_id", order.ID,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.metrics.IncrementCreated()
	s.emit(ctx, audit.EventOrderCreated, order.ID)
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"items", len(order.Items),
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	o, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err, "failed to load order")
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Order, error) {
	orders, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orders")
	}
	return orders, nil
}

// Update overwrites order fields. When in.ReplaceItems is set the stock of
// every current line is restored first, then the new lines are validated and
// decremented. A validation failure after the restore leaves the restored
// stock in place and the order unmodified.
func (s *Service) Update(ctx context.Context, orderID id.OrderID, in models.UpdateInput) (_ *models.Order, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "order.update", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.Bool("order.replace_items", in.ReplaceItems),
	))
	defer func() { s.finish(span, "update", start, err) }()

	unlock, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err, "failed to load order")
	}

	previous := order.Items
	if in.ReplaceItems {
		if len(in.Items) == 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "at least one item is required")
		}
		if err := s.restore(ctx, order.Items); err != nil {
			return nil, err
		}
		items, err := s.checkStock(ctx, in.Items)
		if err != nil {
			return nil, err
		}
		if err := s.decrement(ctx, order.ID, items); err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalAmount = models.ItemsTotal(items)
	}
	if in.TotalAmount != nil {
		order.TotalAmount = *in.TotalAmount
	}
	in.Apply(order)
	order.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, order); err != nil {
		// The stored order still lists its old lines: reverse the new
		// decrements and take the old quantities back out of stock.
		if in.ReplaceItems {
			s.compensate(ctx, order.ID, order.Items)
			if rerr := s.decrement(context.WithoutCancel(ctx), order.ID, previous); rerr != nil {
				s.logger.ErrorContext(ctx, "failed to reapply previous order lines",
					"order_id", order.ID,
					"error", rerr,
				)
			}
		}
		return nil, translate(err, "failed to update order")
	}
	s.emit(ctx, audit.EventOrderUpdated, order.ID)
	return order, nil
}

// Delete restores stock for every line and removes the order.
func (s *Service) Delete(ctx context.Context, orderID id.OrderID) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "order.delete", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
	))
	defer func() { s.finish(span, "delete", start, err) }()

	unlock, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return err
	}
	defer unlock()

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return translate(err, "failed to load order")
	}
	if err := s.restore(ctx, order.Items); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, orderID); err != nil {
		return translate(err, "failed to delete order")
	}
	s.emit(ctx, audit.EventOrderDeleted, orderID)
	return nil
}

// checkStock resolves every line's product concurrently and verifies that the
// summed quantity per product fits the current stock. Errors are reported in
// line order. Missing names and unit prices are filled from the product.
func (s *Service) checkStock(ctx context.Context, items []models.LineItem) ([]models.LineItem, error) {
	records := make([]*ports.ProductRecord, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(lookupConcurrency)
	for i, item := range items {
		g.Go(func() error {
			records[i], errs[i] = s.products.Get(ctx, item.ProductID)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "product %s not found", items[i].ProductID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load product")
	}

	requested := requestedTotals(items)
	checked := make(map[id.ProductID]bool, len(items))
	resolved := make([]models.LineItem, len(items))
	for i, item := range items {
		rec := records[i]
		if !checked[rec.ID] {
			if want := requested[rec.ID]; want > rec.Stock {
				return nil, insufficient(rec.Name, rec.Stock, want)
			}
			checked[rec.ID] = true
		}
		if item.ProductName == "" {
			item.ProductName = rec.Name
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = rec.Price
		}
		resolved[i] = item
	}
	return resolved, nil
}

// decrement applies each line's stock decrement in order. On failure the
// decrements already applied are reversed.
func (s *Service) decrement(ctx context.Context, orderID id.OrderID, items []models.LineItem) error {
	applied := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if err == nil {
			applied = append(applied, item)
			continue
		}

		s.compensate(ctx, orderID, applied)
		if dErrors.HasCode(err, dErrors.CodeInsufficientStock) {
			available := 0
			if rec, getErr := s.products.Get(ctx, item.ProductID); getErr == nil {
				available = rec.Stock
			}
			return insufficient(item.ProductName, available, requestedTotals(items)[item.ProductID])
		}
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "product %s not found", item.ProductID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decrement stock")
	}
	return nil
}

func (s *Service) compensate(ctx context.Context, orderID id.OrderID, applied []models.LineItem) {
	if len(applied) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, item := range applied {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "failed to reverse stock decrement",
				"order_id", orderID,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
				"error", err,
			)
		}
	}
	s.metrics.IncrementCompensated()
	s.emit(ctx, audit.EventStockCompensated, orderID)
}

// restore re-increments stock for each line. Lines without a product id are
// matched by name. Products that no longer exist are skipped.
func (s *Service) restore(ctx context.Context, items []models.LineItem) error {
	for _, item := range items {
		productID := item.ProductID
		if productID.IsNil() {
			rec, err := s.products.FindByName(ctx, item.ProductName)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					s.logger.WarnContext(ctx, "skipping stock restore for unknown product",
						"product_name", item.ProductName,
					)
					continue
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore stock")
			}
			productID = rec.ID
		}
		if err := s.products.AdjustStock(ctx, productID, item.Quantity); err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				s.logger.WarnContext(ctx, "skipping stock restore for deleted product",
					"product_id", productID,
				)
				continue
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore stock")
		}
	}
	return nil
}

func (s *Service) lockOrder(ctx context.Context, orderID id.OrderID) (func(), error) {
	unlock, err := s.locker.Lock(ctx, "order:"+orderID.String())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock order")
	}
	return unlock, nil
}

func (s *Service) finish(span trace.Span, operation string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeInsufficientStock) {
			s.metrics.IncrementRejected()
		}
	}
	s.metrics.ObserveFlow(operation, start)
	span.End()
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, orderID id.OrderID) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.NewEvent(ctx, action, "order", orderID.String())); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", action,
			"order_id", orderID,
			"error", err,
		)
	}
}

// requestedTotals sums quantities per product across duplicate lines.
func requestedTotals(items []models.LineItem) map[id.ProductID]int {
	requested := make(map[id.ProductID]int, len(items))
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}
	return requested
}

func insufficient(name string, available, requested int) error {
	return dErrors.Newf(dErrors.CodeInsufficientStock,
		"Insufficient stock for product %q: available %d, requested %d", name, available, requested)
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
