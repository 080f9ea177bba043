package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"warehouse/internal/product/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error)
	ListBySupplier(ctx context.Context, supplierID id.SupplierID) ([]*models.Product, error)
	Update(ctx context.Context, productID id.ProductID, fn func(*models.Product) error) (*models.Product, error)
	AdjustStock(ctx context.Context, productID id.ProductID, delta int) (*models.Product, error)
	Delete(ctx context.Context, productID id.ProductID) error
}

// SupplierChecker reports whether a supplier reference resolves.
type SupplierChecker interface {
	SupplierExists(ctx context.Context, supplierID id.SupplierID) (bool, error)
}

// Service manages the product catalogue and its stock levels.
type Service struct {
	store     Store
	suppliers SupplierChecker
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSupplierChecker enables supplier reference validation on writes.
func WithSupplierChecker(c SupplierChecker) Option {
	return func(s *Service) {
		s.suppliers = c
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := s.checkSupplier(ctx, p.SupplierID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	p.ID = id.NewProductID()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.store.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}
	s.logger.InfoContext(ctx, "product created",
		"product_id", p.ID,
		"stock", p.Stock,
	)
	return p, nil
}

func (s *Service) Get(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	p, err := s.store.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err, "failed to load product")
	}
	return p, nil
}

// FindByName resolves a product by its display name, ignoring case.
func (s *Service) FindByName(ctx context.Context, name string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	p, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, translate(err, "failed to load product")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Product, error) {
	products, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

func (s *Service) ListBySupplier(ctx context.Context, supplierID id.SupplierID) ([]*models.Product, error) {
	products, err := s.store.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list supplier products")
	}
	return products, nil
}

func (s *Service) Update(ctx context.Context, productID id.ProductID, patch models.Patch) (*models.Product, error) {
	if !patch.ClearSupplier {
		if err := s.checkSupplier(ctx, patch.SupplierID); err != nil {
			return nil, err
		}
	}
	now := requestcontext.Now(ctx)
	p, err := s.store.Update(ctx, productID, func(p *models.Product) error {
		patch.Apply(p)
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to update product")
	}
	return p, nil
}

// AdjustStock atomically changes stock by delta. Decrements past zero fail
// with CodeInsufficientStock and leave the product untouched.
func (s *Service) AdjustStock(ctx context.Context, productID id.ProductID, delta int) (*models.Product, error) {
	p, err := s.store.AdjustStock(ctx, productID, delta)
	if err != nil {
		if errors.Is(err, sentinel.ErrInsufficient) {
			return nil, dErrors.New(dErrors.CodeInsufficientStock, "insufficient stock")
		}
		return nil, translate(err, "failed to adjust stock")
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID id.ProductID) error {
	if err := s.store.Delete(ctx, productID); err != nil {
		return translate(err, "failed to delete product")
	}
	s.logger.InfoContext(ctx, "product deleted", "product_id", productID)
	return nil
}

func (s *Service) checkSupplier(ctx context.Context, supplierID *id.SupplierID) error {
	if supplierID == nil || s.suppliers == nil {
		return nil
	}
	ok, err := s.suppliers.SupplierExists(ctx, *supplierID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check supplier")
	}
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "supplierId does not reference an existing supplier")
	}
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
