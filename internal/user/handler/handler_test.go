package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"warehouse/internal/user/handler/mocks"
	"warehouse/internal/user/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/requestcontext"
	"warehouse/pkg/testutil"
)

func setup(t *testing.T) (*mocks.MockService, *chi.Mux) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return svc, r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleUser() *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         models.RoleAdmin,
	}
}

func TestHandleRegister(t *testing.T) {
	svc, r := setup(t)
	u := sampleUser()
	svc.EXPECT().Register(gomock.Any(), models.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}).
		Return(&models.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), User: u}, nil)

	rec := serve(r, http.MethodPost, "/register", `{"name":" Ada ","email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
}

func TestHandleRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing name", body: `{"email":"a@example.com","password":"secret1"}`, want: "name is required"},
		{name: "bad email", body: `{"name":"A","email":"nope","password":"secret1"}`, want: "email must be a valid email address"},
		{name: "short password", body: `{"name":"A","email":"a@example.com","password":"123"}`, want: "password must have at least 6 characters or items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := setup(t)
			rec := serve(r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestHandleLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, r := setup(t)
		svc.EXPECT().Login(gomock.Any(), "ada@example.com", "secret1").
			Return(&models.Session{Token: "tok", User: sampleUser()}, nil)

		rec := serve(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Login successful")
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc, r := setup(t)
		svc.EXPECT().Login(gomock.Any(), "ada@example.com", "wrong").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))

		rec := serve(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})
}

func TestHandleLogout(t *testing.T) {
	svc, r := setup(t)
	svc.EXPECT().Logout(gomock.Any()).Return(nil)

	rec := serve(r, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")
}

func TestHandleActivity(t *testing.T) {
	svc, r := setup(t)
	svc.EXPECT().Activity(gomock.Any()).Return([]audit.Event{
		{Action: string(audit.EventUserLoggedIn)},
	}, nil)

	rec := serve(r, http.MethodGet, "/user/me/activity", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []audit.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, string(audit.EventUserLoggedIn), body.Data[0].Action)
}

func TestHandleUpdate(t *testing.T) {
	t.Run("role change forbidden", func(t *testing.T) {
		svc, r := setup(t)
		u := sampleUser()
		role := models.RoleAdmin
		svc.EXPECT().Update(gomock.Any(), u.ID, models.Patch{Role: &role}).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "only admins can change roles"))

		rec := serve(r, http.MethodPatch, "/user/"+u.ID.String(), `{"role":"admin"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, r := setup(t)
		rec := serve(r, http.MethodPut, "/user/"+id.NewUserID().String(), `{"role":"owner"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "role must be one of: admin, user")
	})
}

func TestHandleGet_InvalidID(t *testing.T) {
	_, r := setup(t)
	rec := serve(r, http.MethodGet, "/user/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	svc, r := setup(t)
	u := sampleUser()
	svc.EXPECT().Delete(gomock.Any(), u.ID).Return(nil)

	rec := serve(r, http.MethodDelete, "/user/"+u.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleMe(t *testing.T) {
	testutil.Given(t, "an authenticated caller", func(t *testing.T) {
		svc, r := setup(t)
		u := sampleUser()

		testutil.When(t, "they request their own profile", func(t *testing.T) {
			svc.EXPECT().Me(gomock.Cond(func(ctx context.Context) bool {
				return requestcontext.UserID(ctx) == u.ID
			})).Return(u, nil)

			req := testutil.WithPrincipal(httptest.NewRequest(http.MethodGet, "/me", nil), u.ID.String(), string(u.Role))
			rec := testutil.DoRequest(r, req)

			testutil.Then(t, "the profile is returned without the password hash", func(t *testing.T) {
				testutil.AssertStatus(t, rec, http.StatusOK)
				body := testutil.DecodeData[UserResponse](t, rec)
				assert.Equal(t, "ada@example.com", body.Email)
				assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
			})
		})
	})
}
