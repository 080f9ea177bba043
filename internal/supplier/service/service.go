package service

import (
	"context"
	"errors"
	"log/slog"

	productmodels "warehouse/internal/product/models"
	"warehouse/internal/supplier/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sup *models.Supplier) error
	FindByID(ctx context.Context, supplierID id.SupplierID) (*models.Supplier, error)
	List(ctx context.Context, status models.Status) ([]*models.Supplier, error)
	Update(ctx context.Context, sup *models.Supplier) error
	Delete(ctx context.Context, supplierID id.SupplierID) error
}

// ProductLister resolves the products a supplier provides.
type ProductLister interface {
	ListBySupplier(ctx context.Context, supplierID id.SupplierID) ([]*productmodels.Product, error)
}

type Service struct {
	store    Store
	products ProductLister
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, products ProductLister, opts ...Option) *Service {
	s := &Service{store: store, products: products, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, sup *models.Supplier) (*models.Supplier, error) {
	now := requestcontext.Now(ctx)
	sup.ID = id.NewSupplierID()
	sup.CreatedAt, sup.UpdatedAt = now, now
	if sup.Status == "" {
		sup.Status = models.StatusActive
	}
	if err := s.store.Create(ctx, sup); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create supplier")
	}
	return sup, nil
}

// Get returns the supplier with its products embedded.
func (s *Service) Get(ctx context.Context, supplierID id.SupplierID) (*models.Details, error) {
	sup, err := s.store.FindByID(ctx, supplierID)
	if err != nil {
		return nil, translate(err, "failed to load supplier")
	}
	products, err := s.products.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier products")
	}
	return &models.Details{Supplier: sup, Products: products}, nil
}

func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Supplier, error) {
	sups, err := s.store.List(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list suppliers")
	}
	return sups, nil
}

func (s *Service) Update(ctx context.Context, supplierID id.SupplierID, patch models.Patch) (*models.Supplier, error) {
	sup, err := s.store.FindByID(ctx, supplierID)
	if err != nil {
		return nil, translate(err, "failed to load supplier")
	}
	patch.Apply(sup)
	sup.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, sup); err != nil {
		return nil, translate(err, "failed to update supplier")
	}
	return sup, nil
}

func (s *Service) Delete(ctx context.Context, supplierID id.SupplierID) error {
	if err := s.store.Delete(ctx, supplierID); err != nil {
		return translate(err, "failed to delete supplier")
	}
	s.logger.InfoContext(ctx, "supplier deleted", "supplier_id", supplierID)
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "supplier not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
