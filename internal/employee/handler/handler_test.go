package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"warehouse/internal/employee/service"
	"warehouse/internal/employee/store"
	"warehouse/pkg/password"
	"warehouse/pkg/testutil"
)

func TestMain(m *testing.M) {
	password.UseMinCostForTests()
	m.Run()
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	h := New(service.New(store.NewInMemory()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestEmployeeEndpoints(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/employee", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "s3cret!", "role": "manager", "department": "Ops",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	assert.False(t, strings.Contains(rr.Body.String(), "password"), "hash must not be rendered")
	created := testutil.DecodeData[EmployeeResponse](t, rr)
	assert.Equal(t, "manager", created.Role)

	t.Run("duplicate email is 409", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/employee", map[string]any{
			"name": "Ada 2", "email": "ADA@example.com", "password": "s3cret!",
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("invalid role is 400", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/employee", map[string]any{
			"name": "Bob", "email": "bob@example.com", "password": "s3cret!", "role": "owner",
		}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, "role must be one of: admin, manager, staff", testutil.DecodeError(t, rr).Error)
	})

	t.Run("filter by department", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/employee?department=ops", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]EmployeeResponse](t, rr), 1)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/employee?role=staff", nil))
		assert.Empty(t, testutil.DecodeData[[]EmployeeResponse](t, rr))
	})

	t.Run("patch then delete", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/employee/"+created.ID, map[string]any{"status": "inactive"}))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "inactive", testutil.DecodeData[EmployeeResponse](t, rr).Status)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete, "/employee/"+created.ID, nil))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/employee/"+created.ID, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}
