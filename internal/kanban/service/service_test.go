package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/kanban/models"
	"warehouse/internal/kanban/store"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
)

type employees map[id.EmployeeID]bool

func (e employees) Exists(_ context.Context, employeeID id.EmployeeID) (bool, error) {
	if e == nil {
		return false, errors.New("employee directory offline")
	}
	return e[employeeID], nil
}

func TestCreateAppendsToColumn(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewInMemory())

	first, err := svc.Create(ctx, models.CreateInput{Title: "Label pallets"})
	require.NoError(t, err)
	assert.Equal(t, models.ColumnTodo, first.Column)
	assert.Equal(t, models.PriorityMedium, first.Priority)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, []string{}, first.Tags)

	second, err := svc.Create(ctx, models.CreateInput{Title: "Sweep dock", Tags: []string{" dock ", "dock", ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, []string{"dock"}, second.Tags)

	review, err := svc.Create(ctx, models.CreateInput{Title: "Check invoice", Column: models.ColumnReview})
	require.NoError(t, err)
	assert.Equal(t, 0, review.Position, "positions are per column")

	pinned := 7
	explicit, err := svc.Create(ctx, models.CreateInput{Title: "Pinned", Position: &pinned})
	require.NoError(t, err)
	assert.Equal(t, 7, explicit.Position)
}

func TestAssigneeMustExist(t *testing.T) {
	ctx := context.Background()
	known := id.NewEmployeeID()
	svc := New(store.NewInMemory(), WithEmployeeChecker(employees{known: true}))

	unknown := id.NewEmployeeID()
	_, err := svc.Create(ctx, models.CreateInput{Title: "Count bins", AssignedTo: &unknown})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	task, err := svc.Create(ctx, models.CreateInput{Title: "Count bins", AssignedTo: &known})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedTo)

	t.Run("clearing skips the check", func(t *testing.T) {
		cleared, err := svc.Update(ctx, task.ID, models.Patch{ClearAssignee: true, AssignedTo: &unknown})
		require.NoError(t, err)
		assert.Nil(t, cleared.AssignedTo)
	})

	t.Run("checker errors propagate", func(t *testing.T) {
		offline := New(store.NewInMemory(), WithEmployeeChecker(employees(nil)))
		_, err := offline.Create(ctx, models.CreateInput{Title: "x", AssignedTo: &known})
		require.Error(t, err)
	})
}

func TestMoveAndList(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewInMemory())

	a, err := svc.Create(ctx, models.CreateInput{Title: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.CreateInput{Title: "B"})
	require.NoError(t, err)

	moved, err := svc.Move(ctx, a.ID, models.ColumnDone, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnDone, moved.Column)

	done, err := svc.List(ctx, models.ListFilter{Column: models.ColumnDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "A", done[0].Title)

	all, err := svc.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Move(ctx, a.ID, models.ColumnTodo, 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
