package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/notification/metrics"
	"warehouse/internal/notification/models"
	"warehouse/internal/notification/store"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
)

func TestNotifyIsInsertIfAbsent(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := New(store.NewInMemory(), WithMetrics(m))
	ctx := context.Background()

	created, err := svc.Notify(ctx, &models.Notification{
		Title: "Task Completed", Type: models.TypeSuccess, Category: models.CategoryTask,
		IdempotencyKey: "task-completed:ship pallets",
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Notify(ctx, &models.Notification{
		Title: "Task Completed", Type: models.TypeSuccess, Category: models.CategoryTask,
		IdempotencyKey: "task-completed:ship pallets",
	})
	require.NoError(t, err)
	assert.False(t, created)

	list, err := svc.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Deduplicated))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Created.WithLabelValues("task")))
}

func TestCreateFillsDefaults(t *testing.T) {
	svc := New(store.NewInMemory())
	n, err := svc.Create(context.Background(), &models.Notification{Title: "Restock soon"})
	require.NoError(t, err)

	assert.False(t, n.ID.IsNil())
	assert.Equal(t, models.TypeInfo, n.Type)
	assert.Equal(t, models.PriorityMedium, n.Priority)
	assert.Equal(t, models.CategorySystem, n.Category)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestReadAndDelete(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()
	a, err := svc.Create(ctx, &models.Notification{Title: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Notification{Title: "b"})
	require.NoError(t, err)

	read, err := svc.MarkRead(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = svc.MarkRead(ctx, id.NewNotificationID(), true)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	n, err := svc.BulkDelete(ctx, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	changed, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	n, err = svc.BulkDelete(ctx, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = svc.Delete(ctx, a.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
