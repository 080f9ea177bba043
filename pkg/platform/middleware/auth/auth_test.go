package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/pkg/requestcontext"
)

type stubVerifier struct {
	claims *Claims
	err    error
}

func (s stubVerifier) VerifyToken(string) (*Claims, error) { return s.claims, s.err }

type stubRevocations struct {
	revoked bool
	err     error
}

func (s stubRevocations) IsTokenRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func okHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestGate_Verify(t *testing.T) {
	validClaims := &Claims{UserID: uuid.NewString(), Email: "a@b.c", Role: "admin", JTI: "jti-1"}

	t.Run("public paths skip verification", func(t *testing.T) {
		g := NewGate(stubVerifier{err: errors.New("never called")})
		for _, p := range []string{"/api/login", "/api/register", "/api/upload", "/api/login/"} {
			res, err := g.Verify(httptest.NewRequest(http.MethodPost, p, nil))
			require.NoError(t, err)
			assert.True(t, res.Skip, p)
		}
	})

	t.Run("missing header is unauthenticated", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: validClaims})
		res, err := g.Verify(httptest.NewRequest(http.MethodGet, "/api/product", nil))
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, http.StatusUnauthorized, res.Status)
	})

	t.Run("bad token is forbidden", func(t *testing.T) {
		g := NewGate(stubVerifier{err: errors.New("invalid token")})
		r := httptest.NewRequest(http.MethodGet, "/api/product", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		res, err := g.Verify(r)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, res.Status)
	})

	t.Run("revoked token is forbidden", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: validClaims}, WithRevocationChecker(stubRevocations{revoked: true}))
		r := httptest.NewRequest(http.MethodGet, "/api/product", nil)
		r.Header.Set("Authorization", "Bearer token")
		res, err := g.Verify(r)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, res.Status)
		assert.Equal(t, "Token has been revoked", res.Message)
	})

	t.Run("valid token yields claims", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: validClaims}, WithRevocationChecker(stubRevocations{}))
		r := httptest.NewRequest(http.MethodGet, "/api/product", nil)
		r.Header.Set("Authorization", "bearer token")
		res, err := g.Verify(r)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, validClaims, res.Claims)
	})

	t.Run("revocation lookup failure is returned", func(t *testing.T) {
		g := NewGate(stubVerifier{claims: validClaims}, WithRevocationChecker(stubRevocations{err: errors.New("redis down")}))
		r := httptest.NewRequest(http.MethodGet, "/api/product", nil)
		r.Header.Set("Authorization", "Bearer token")
		_, err := g.Verify(r)
		require.Error(t, err)
	})
}

func TestGate_RequireAuth(t *testing.T) {
	userID := uuid.New()
	claims := &Claims{UserID: userID.String(), Role: "user", JTI: "jti-2"}

	t.Run("writes 401 envelope without header", func(t *testing.T) {
		called := false
		h := NewGate(stubVerifier{claims: claims}).RequireAuth(okHandler(t, &called))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/order", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Access denied. No token provided.","code":"unauthorized"}`, w.Body.String())
	})

	t.Run("writes 403 for invalid token", func(t *testing.T) {
		called := false
		h := NewGate(stubVerifier{err: errors.New("expired")}).RequireAuth(okHandler(t, &called))
		r := httptest.NewRequest(http.MethodGet, "/api/order", nil)
		r.Header.Set("Authorization", "Bearer expired")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("stores principal on success", func(t *testing.T) {
		var got requestcontext.Principal
		h := NewGate(stubVerifier{claims: claims}).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = requestcontext.PrincipalFrom(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/api/order", nil)
		r.Header.Set("Authorization", "Bearer ok")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, userID.String(), got.UserID.String())
		assert.Equal(t, "jti-2", got.TokenID)
	})

	t.Run("public path passes through", func(t *testing.T) {
		called := false
		h := NewGate(stubVerifier{}).RequireAuth(okHandler(t, &called))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/register", nil))
		assert.True(t, called)
	})
}
