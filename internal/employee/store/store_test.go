package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"warehouse/internal/employee/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

type EmployeeStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *EmployeeStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestEmployeeStoreSuite(t *testing.T) {
	suite.Run(t, new(EmployeeStoreSuite))
}

func (s *EmployeeStoreSuite) newEmployee(name, email string, role models.Role, dept string) *models.Employee {
	return &models.Employee{
		ID:         id.NewEmployeeID(),
		Name:       name,
		Email:      email,
		Role:       role,
		Department: dept,
		Status:     models.StatusActive,
	}
}

func (s *EmployeeStoreSuite) TestEmailUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newEmployee("Ada", "ada@example.com", models.RoleStaff, "ops")))

	s.Run("rejects case-insensitive duplicate", func() {
		err := s.store.Create(s.ctx, s.newEmployee("Ada 2", "ADA@example.com", models.RoleStaff, "ops"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("finds by email ignoring case", func() {
		found, err := s.store.FindByEmail(s.ctx, "Ada@Example.com")
		s.Require().NoError(err)
		s.Equal("Ada", found.Name)
	})
}

func (s *EmployeeStoreSuite) TestListFilters() {
	s.Require().NoError(s.store.Create(s.ctx, s.newEmployee("Bob", "bob@example.com", models.RoleManager, "Logistics")))
	s.Require().NoError(s.store.Create(s.ctx, s.newEmployee("Ada", "ada@example.com", models.RoleStaff, "logistics")))
	inactive := s.newEmployee("Cy", "cy@example.com", models.RoleStaff, "finance")
	inactive.Status = models.StatusInactive
	s.Require().NoError(s.store.Create(s.ctx, inactive))

	all, err := s.store.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Ada", all[0].Name)

	staff, err := s.store.List(s.ctx, models.ListFilter{Role: models.RoleStaff})
	s.Require().NoError(err)
	s.Len(staff, 2)

	logistics, err := s.store.List(s.ctx, models.ListFilter{Department: "LOGISTICS"})
	s.Require().NoError(err)
	s.Len(logistics, 2)

	off, err := s.store.List(s.ctx, models.ListFilter{Status: models.StatusInactive})
	s.Require().NoError(err)
	s.Require().Len(off, 1)
	s.Equal("Cy", off[0].Name)
}
