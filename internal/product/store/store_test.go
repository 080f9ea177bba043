package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"warehouse/internal/product/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

type ProductStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *ProductStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestProductStoreSuite(t *testing.T) {
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) newProduct(name, category string, stock int) *models.Product {
	now := time.Now().UTC()
	return &models.Product{
		ID:        id.NewProductID(),
		Name:      name,
		Stock:     stock,
		Price:     decimal.NewFromInt(5),
		Category:  category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *ProductStoreSuite) TestCreateAndFind() {
	p := s.newProduct("Widget", "parts", 10)
	s.Require().NoError(s.store.Create(s.ctx, p))

	s.Run("by id", func() {
		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Widget", found.Name)
		s.True(found.Price.Equal(decimal.NewFromInt(5)))
	})

	s.Run("by name ignores case", func() {
		found, err := s.store.FindByName(s.ctx, "wIdGeT")
		s.Require().NoError(err)
		s.Equal(p.ID, found.ID)
	})

	s.Run("unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewProductID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ProductStoreSuite) TestListFilters() {
	supplierID := id.NewSupplierID()
	bolt := s.newProduct("Steel Bolt", "hardware", 3)
	bolt.SupplierID = &supplierID
	nut := s.newProduct("Steel Nut", "hardware", 3)
	nut.IsActive = false
	glue := s.newProduct("Glue", "adhesives", 1)
	for _, p := range []*models.Product{bolt, nut, glue} {
		s.Require().NoError(s.store.Create(s.ctx, p))
	}

	inactive := false
	cases := []struct {
		name   string
		filter models.ListFilter
		want   []string
	}{
		{"no filter", models.ListFilter{}, []string{"Steel Bolt", "Steel Nut", "Glue"}},
		{"category", models.ListFilter{Category: "HARDWARE"}, []string{"Steel Bolt", "Steel Nut"}},
		{"inactive", models.ListFilter{IsActive: &inactive}, []string{"Steel Nut"}},
		{"supplier", models.ListFilter{SupplierID: &supplierID}, []string{"Steel Bolt"}},
		{"search", models.ListFilter{Search: "nut"}, []string{"Steel Nut"}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			got, err := s.store.List(s.ctx, tc.filter)
			s.Require().NoError(err)
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			s.Equal(tc.want, names)
		})
	}

	s.Run("by supplier", func() {
		got, err := s.store.ListBySupplier(s.ctx, supplierID)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(bolt.ID, got[0].ID)
	})
}

func (s *ProductStoreSuite) TestAdjustStock() {
	p := s.newProduct("Widget", "parts", 10)
	s.Require().NoError(s.store.Create(s.ctx, p))

	s.Run("decrements within stock", func() {
		updated, err := s.store.AdjustStock(s.ctx, p.ID, -4)
		s.Require().NoError(err)
		s.Equal(6, updated.Stock)
	})

	s.Run("rejects going below zero and leaves stock alone", func() {
		_, err := s.store.AdjustStock(s.ctx, p.ID, -7)
		s.Require().ErrorIs(err, sentinel.ErrInsufficient)

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(6, found.Stock)
	})

	s.Run("increments", func() {
		updated, err := s.store.AdjustStock(s.ctx, p.ID, 4)
		s.Require().NoError(err)
		s.Equal(10, updated.Stock)
	})

	s.Run("unknown product", func() {
		_, err := s.store.AdjustStock(s.ctx, id.NewProductID(), 1)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ProductStoreSuite) TestConcurrentDecrementsNeverOversell() {
	p := s.newProduct("Widget", "parts", 10)
	s.Require().NoError(s.store.Create(s.ctx, p))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.AdjustStock(s.ctx, p.ID, -1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(10, ok)
	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(0, found.Stock)
}

func (s *ProductStoreSuite) TestUpdateAndDelete() {
	p := s.newProduct("Widget", "parts", 10)
	s.Require().NoError(s.store.Create(s.ctx, p))

	_, err := s.store.AdjustStock(s.ctx, p.ID, -4)
	s.Require().NoError(err)

	updated, err := s.store.Update(s.ctx, p.ID, func(cur *models.Product) error {
		cur.Name = "Widget v2"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(6, updated.Stock)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Widget v2", found.Name)
	s.Equal(6, found.Stock)

	_, err = s.store.Update(s.ctx, id.NewProductID(), func(*models.Product) error { return nil })
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.Delete(s.ctx, p.ID))
	s.Require().ErrorIs(s.store.Delete(s.ctx, p.ID), sentinel.ErrNotFound)
}
