package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/employee/models"
	"warehouse/internal/employee/store"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/password"
)

func TestMain(m *testing.M) {
	password.UseMinCostForTests()
	m.Run()
}

func TestCreateHashesPasswordAndDefaults(t *testing.T) {
	svc := New(store.NewInMemory())
	e, err := svc.Create(context.Background(), models.CreateInput{
		Name: "Ada", Email: "Ada@Example.com", Password: "s3cret!",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", e.Email)
	assert.Equal(t, models.RoleStaff, e.Role)
	assert.Equal(t, models.StatusActive, e.Status)
	assert.NotEqual(t, "s3cret!", e.PasswordHash)
	require.NoError(t, password.Verify("s3cret!", e.PasswordHash))
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()
	_, err := svc.Create(ctx, models.CreateInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.CreateInput{Name: "Ada B", Email: "ADA@example.com", Password: "s3cret!"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	other, err := svc.Create(ctx, models.CreateInput{Name: "Bob", Email: "bob@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	taken := "ada@example.com"
	_, err = svc.Update(ctx, other.ID, models.Patch{Email: &taken})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestUpdateRehashesPassword(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()
	e, err := svc.Create(ctx, models.CreateInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	pw := "n3w-secret"
	updated, err := svc.Update(ctx, e.ID, models.Patch{Password: &pw})
	require.NoError(t, err)
	require.NoError(t, password.Verify("n3w-secret", updated.PasswordHash))
}

func TestDisplayNameAndExists(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()
	e, err := svc.Create(ctx, models.CreateInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	name, err := svc.DisplayName(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	ok, err := svc.Exists(ctx, id.NewEmployeeID())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.DisplayName(ctx, id.NewEmployeeID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
