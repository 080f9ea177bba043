//go:build integration

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/testutil/containers"
)

func TestRedisLock(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	locker := NewRedis(rc.Client, 200*time.Millisecond)

	unlock, err := locker.Lock(ctx, "order:42")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "order:42")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	unlock()

	unlock2, err := locker.Lock(ctx, "order:42")
	require.NoError(t, err)
	unlock2()
}
