package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productmodels "warehouse/internal/product/models"
	productservice "warehouse/internal/product/service"
	productstore "warehouse/internal/product/store"
	"warehouse/internal/supplier/service"
	"warehouse/internal/supplier/store"
	id "warehouse/pkg/domain"
	"warehouse/pkg/testutil"
)

type fixture struct {
	router   http.Handler
	products *productservice.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	suppliers := store.NewInMemory()
	products := productservice.New(productstore.NewInMemory(), productservice.WithSupplierChecker(suppliers))
	h := New(service.New(suppliers, products), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return fixture{router: r, products: products}
}

type supplierBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Products []struct {
		Name string `json:"name"`
	} `json:"products"`
}

func TestSupplierLifecycle(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/supplier", map[string]any{
		"name":  "Acme Parts",
		"email": "Sales@Acme.example",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.DecodeData[supplierBody](t, rr)
	assert.Equal(t, "active", created.Status)

	supplierID, err := id.ParseSupplierID(created.ID)
	require.NoError(t, err)
	_, err = f.products.Create(context.Background(), &productmodels.Product{
		Name: "Bolt", Category: "hardware", Stock: 5, SupplierID: &supplierID,
	})
	require.NoError(t, err)

	t.Run("get embeds products", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/supplier/"+created.ID, nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.DecodeData[supplierBody](t, rr)
		require.Len(t, got.Products, 1)
		assert.Equal(t, "Bolt", got.Products[0].Name)
	})

	t.Run("status filter", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch, "/supplier/"+created.ID, map[string]any{"status": "inactive"}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/supplier?status=active", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Empty(t, testutil.DecodeData[[]supplierBody](t, rr))

		rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/supplier?status=gone", nil))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("delete then 404", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodDelete, "/supplier/"+created.ID, nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/supplier/"+created.ID, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestCreateSupplierValidation(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/supplier", map[string]any{
		"name":  "Acme",
		"email": "not-an-email",
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Equal(t, "email must be a valid email address", testutil.DecodeError(t, rr).Error)
}
