package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	jwttoken "warehouse/internal/jwt_token"
	orderAdapters "warehouse/internal/order/adapters"
	orderHandler "warehouse/internal/order/handler"
	orderService "warehouse/internal/order/service"
	orderStore "warehouse/internal/order/store"
	"warehouse/internal/platform/metrics"
	productHandler "warehouse/internal/product/handler"
	productService "warehouse/internal/product/service"
	productStore "warehouse/internal/product/store"
	rateLimitMiddleware "warehouse/internal/ratelimit/middleware"
	rateLimitModels "warehouse/internal/ratelimit/models"
	rateLimitStore "warehouse/internal/ratelimit/store"
	uploadHandler "warehouse/internal/upload/handler"
	uploadService "warehouse/internal/upload/service"
	uploadStorage "warehouse/internal/upload/storage"
	userHandler "warehouse/internal/user/handler"
	"warehouse/internal/user/revocation"
	userService "warehouse/internal/user/service"
	userStore "warehouse/internal/user/store"
	"warehouse/pkg/password"
	"warehouse/pkg/platform/middleware/auth"
	"warehouse/pkg/testutil"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type RouterSuite struct {
	suite.Suite
	router http.Handler
	jwt    *jwttoken.JWTService
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.jwt = jwttoken.NewJWTService("router-test-key", "warehouse")
	revocations := revocation.NewMemory(nil)

	users := userService.New(userStore.NewInMemory(), s.jwt,
		userService.WithLogger(logger),
		userService.WithRevocationList(revocations),
	)
	products := productService.New(productStore.NewInMemory(), productService.WithLogger(logger))
	orders := orderService.New(orderStore.NewInMemory(), orderAdapters.NewProductAdapter(products),
		orderService.WithLogger(logger),
	)
	local, err := uploadStorage.NewLocal(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	gate := auth.NewGate(jwttoken.NewJWTServiceAdapter(s.jwt),
		auth.WithRevocationChecker(revocations),
		auth.WithLogger(logger),
	)
	limiter := rateLimitMiddleware.New(rateLimitStore.NewMemory(),
		rateLimitModels.Policy{Limit: 5, Window: time.Minute},
		rateLimitMiddleware.WithLogger(logger),
	)
	s.router = NewRouter(Config{
		Logger:         logger,
		Metrics:        metrics.New(prometheus.NewRegistry()),
		Gate:           gate,
		RateLimit:      limiter.Paths("/api/login", "/api/register"),
		RequestTimeout: 5 * time.Second,
		Modules: []Module{
			userHandler.New(users, logger),
			productHandler.New(products, logger),
			orderHandler.New(orders, logger),
			uploadHandler.New(uploadService.New(local, uploadService.WithLogger(logger)), logger),
		},
	})
}

func TestRouterSuite(t *testing.T) {
	password.UseMinCostForTests()
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		testutil.WithBearer(req, token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *RouterSuite) login() string {
	rec, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"name": "Ops", "email": "ops@example.com", "password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(http.MethodPost, "/api/login", "", map[string]string{
		"email": "ops@example.com", "password": "secret123",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &session))
	s.Require().NotEmpty(session.Token)
	return session.Token
}

func (s *RouterSuite) TestProtectedRouteWithoutHeader() {
	rec, env := s.do(http.MethodGet, "/api/product", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Access denied. No token provided.", env.Error)
}

func (s *RouterSuite) TestProtectedRouteWithInvalidToken() {
	rec, env := s.do(http.MethodGet, "/api/product", "not-a-jwt", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Invalid or expired token", env.Error)
}

func (s *RouterSuite) TestProtectedRouteWithExpiredToken() {
	issued, err := s.jwt.GenerateAccessToken(uuid.New(), "old@example.com", "user", -time.Minute)
	s.Require().NoError(err)

	rec, _ := s.do(http.MethodGet, "/api/product", issued.Token, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestLogoutRevokesToken() {
	token := s.login()

	rec, _ := s.do(http.MethodGet, "/api/user/me", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/logout", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, env := s.do(http.MethodGet, "/api/user/me", token, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Token has been revoked", env.Error)
}

func (s *RouterSuite) TestPublicPaths() {
	rec, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"name": "A", "email": "a@example.com", "password": "secret123",
	})
	s.Equal(http.StatusCreated, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@example.com", "password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, rec.Code, "login is reachable without a token and rejects bad credentials")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var pngBuf bytes.Buffer
	s.Require().NoError(png.Encode(&pngBuf, img))
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("file", "box.png")
	s.Require().NoError(err)
	_, err = fw.Write(pngBuf.Bytes())
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	upload := httptest.NewRecorder()
	s.router.ServeHTTP(upload, req)
	s.Equal(http.StatusCreated, upload.Code, upload.Body.String())
}

func (s *RouterSuite) TestOrderAgainstStock() {
	token := s.login()

	rec, env := s.do(http.MethodPost, "/api/product", token, map[string]any{
		"name": "Widget", "category": "parts", "stock": 10, "price": "2.50",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &product))

	order := func(qty int) map[string]any {
		return map[string]any{
			"customerName": "Acme",
			"items":        []map[string]any{{"productId": product.ID, "quantity": qty}},
		}
	}

	rec, env = s.do(http.MethodPost, "/api/order", token, order(12))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(env.Error, "Insufficient stock")

	rec, _ = s.do(http.MethodGet, "/api/product/"+product.ID, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/order", token, order(4))
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodGet, "/api/product/"+product.ID, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &product))
	s.Equal(6, product.Stock)
}

func (s *RouterSuite) TestOperationalRoutes() {
	rec, env := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", env.Message)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	s.router.ServeHTTP(metricsRec, req)
	s.Equal(http.StatusOK, metricsRec.Code)
	s.Contains(metricsRec.Body.String(), "warehouse_http_requests_in_flight")
}

func TestNewRouter_HealthCheckFailure(t *testing.T) {
	r := NewRouter(Config{Health: []HealthCheck{
		{Name: "database", Check: func(context.Context) error { return errors.New("connection refused") }},
	}})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "database unavailable")
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	r := NewRouter(Config{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestLoginRateLimited() {
	creds := map[string]string{"email": "nobody@example.com", "password": "wrong-password"}
	for range 5 {
		rec, _ := s.do(http.MethodPost, "/api/login", "", creds)
		s.Equal(http.StatusUnauthorized, rec.Code)
	}

	rec, env := s.do(http.MethodPost, "/api/login", "", creds)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("rate_limited", env.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))

	rec, _ = s.do(http.MethodGet, "/api/product", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
