package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "warehouse/pkg/domain-errors"
)

func TestParseTime(t *testing.T) {
	got, err := ParseTime("dueDate", "2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("dueDate", "2026-02-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, got.UTC().Hour())

	_, err = ParseTime("dueDate", "tomorrow")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?read=true&status=paid&startDate=2026-01-01&bad=maybe", nil)

	read, err := QueryBool(r, "read")
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.True(t, *read)

	missing, err := QueryBool(r, "isActive")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryBool(r, "bad")
	assert.Error(t, err)

	status, err := QueryEnum(r, "status", "pending", "paid", "overdue")
	require.NoError(t, err)
	assert.Equal(t, "paid", status)

	_, err = QueryEnum(r, "bad", "x")
	assert.Error(t, err)

	start, err := QueryTime(r, "startDate")
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, 2026, start.Year())
}
