package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"warehouse/internal/order/handler/mocks"
	"warehouse/internal/order/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/testutil"
)

func newRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return svc, r
}

func echoCreate(t *testing.T, check func(models.CreateInput)) func(any, models.CreateInput) (*models.Order, error) {
	return func(_ any, in models.CreateInput) (*models.Order, error) {
		check(in)
		return &models.Order{
			ID:           id.NewOrderID(),
			CustomerName: in.CustomerName,
			Items:        in.Items,
			Status:       models.StatusPending,
			TotalAmount:  models.ItemsTotal(in.Items),
		}, nil
	}
}

func TestHandleCreate(t *testing.T) {
	widget := id.NewProductID()
	gadget := id.NewProductID()

	t.Run("items shape", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echoCreate(t, func(in models.CreateInput) {
			require.Len(t, in.Items, 2)
			assert.Equal(t, widget, in.Items[0].ProductID)
			assert.Equal(t, 4, in.Items[0].Quantity)
			assert.True(t, decimal.RequireFromString("2.5").Equal(in.Items[0].UnitPrice))
			assert.Nil(t, in.TotalAmount)
		}))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/order", map[string]any{
			"customerName": "Ada",
			"items": []map[string]any{
				{"productId": widget.String(), "quantity": 4, "unitPrice": 2.5},
				{"productId": gadget.String(), "quantity": 1},
			},
		}))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		got := testutil.DecodeData[OrderResponse](t, rr)
		require.Len(t, got.Items, 2)
		assert.Equal(t, widget.String(), got.Items[0].ProductID)
		assert.True(t, decimal.NewFromInt(10).Equal(got.Items[0].Subtotal))
	})

	t.Run("legacy parallel arrays", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echoCreate(t, func(in models.CreateInput) {
			require.Len(t, in.Items, 2)
			assert.Equal(t, "Widget", in.Items[0].ProductName)
			assert.Equal(t, gadget, in.Items[1].ProductID)
			assert.Equal(t, 2, in.Items[1].Quantity)
			require.NotNil(t, in.DeliveryDate)
			assert.Equal(t, 2026, in.DeliveryDate.Year())
		}))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/order", map[string]any{
			"customerName":    "Ada",
			"productIds":      []string{widget.String(), gadget.String()},
			"productName":     []string{"Widget", "Gadget"},
			"productQuantity": []int{4, 2},
			"deliveryDate":    "2026-05-01",
		}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})

	cases := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name: "misaligned arrays",
			body: map[string]any{
				"customerName":    "Ada",
				"productIds":      []string{widget.String(), gadget.String()},
				"productQuantity": []int{4},
			},
			message: "productIds, productName and productQuantity must have the same length",
		},
		{
			name: "both shapes",
			body: map[string]any{
				"customerName":    "Ada",
				"items":           []map[string]any{{"productId": widget.String(), "quantity": 1}},
				"productIds":      []string{widget.String()},
				"productQuantity": []int{1},
			},
			message: "use either items or productIds/productQuantity, not both",
		},
		{
			name:    "no items",
			body:    map[string]any{"customerName": "Ada", "items": []any{}},
			message: "at least one item is required",
		},
		{
			name:    "zero quantity",
			body:    map[string]any{"customerName": "Ada", "items": []map[string]any{{"productId": widget.String(), "quantity": 0}}},
			message: "items[0].quantity must be at least 1",
		},
		{
			name:    "bad product id",
			body:    map[string]any{"customerName": "Ada", "items": []map[string]any{{"productId": "abc", "quantity": 1}}},
			message: "items[0].productId is invalid",
		},
		{
			name:    "missing customer",
			body:    map[string]any{"items": []map[string]any{{"productId": widget.String(), "quantity": 1}}},
			message: "customerName is required",
		},
		{
			name:    "bad status",
			body:    map[string]any{"customerName": "Ada", "status": "lost", "items": []map[string]any{{"productId": widget.String(), "quantity": 1}}},
			message: "status must be one of: pending, shipped, delivered, cancelled",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, router := newRouter(t)
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/order", tc.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			assert.Equal(t, tc.message, testutil.DecodeError(t, rr).Error)
		})
	}

	t.Run("insufficient stock is a 400 naming the product", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeInsufficientStock, `Insufficient stock for product "Widget": available 10, requested 12`))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/order", map[string]any{
			"customerName": "Ada",
			"items":        []map[string]any{{"productId": widget.String(), "quantity": 12}},
		}))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		body := testutil.DecodeError(t, rr)
		assert.Equal(t, "insufficient_stock", body.Code)
		assert.Contains(t, body.Error, "Insufficient stock")
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeNotFound, "product not found"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/order", map[string]any{
			"customerName": "Ada",
			"items":        []map[string]any{{"productId": widget.String(), "quantity": 1}},
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestHandleUpdate(t *testing.T) {
	orderID := id.NewOrderID()
	widget := id.NewProductID()

	t.Run("fields only", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Update(gomock.Any(), orderID, gomock.Any()).DoAndReturn(
			func(_ any, _ id.OrderID, in models.UpdateInput) (*models.Order, error) {
				assert.False(t, in.ReplaceItems)
				require.NotNil(t, in.Status)
				assert.Equal(t, models.StatusShipped, *in.Status)
				return &models.Order{ID: orderID, Status: *in.Status}, nil
			})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/order/"+orderID.String(),
			map[string]any{"status": "shipped"}))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("items replace", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Update(gomock.Any(), orderID, gomock.Any()).DoAndReturn(
			func(_ any, _ id.OrderID, in models.UpdateInput) (*models.Order, error) {
				assert.True(t, in.ReplaceItems)
				require.Len(t, in.Items, 1)
				assert.Equal(t, 3, in.Items[0].Quantity)
				return &models.Order{ID: orderID, Items: in.Items}, nil
			})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/order/"+orderID.String(),
			map[string]any{"productIds": []string{widget.String()}, "productQuantity": []int{3}}))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("blank customer rejected", func(t *testing.T) {
		_, router := newRouter(t)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/order/"+orderID.String(),
			map[string]any{"customerName": " "}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func TestHandleListAndDelete(t *testing.T) {
	svc, router := newRouter(t)
	orderID := id.NewOrderID()
	svc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, f models.ListFilter) ([]*models.Order, error) {
			assert.Equal(t, models.StatusPending, f.Status)
			require.NotNil(t, f.From)
			return []*models.Order{{ID: orderID}}, nil
		})
	svc.EXPECT().Delete(gomock.Any(), orderID).Return(nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/order?status=pending&startDate=2026-01-01", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Len(t, testutil.DecodeData[[]OrderResponse](t, rr), 1)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete, "/order/"+orderID.String(), nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
