package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	jwttoken "warehouse/internal/jwt_token"
	"warehouse/internal/platform/metrics"
	"warehouse/internal/user/models"
	"warehouse/internal/user/revocation"
	"warehouse/internal/user/store"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/password"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/audit/publisher"
	auditmemory "warehouse/pkg/platform/audit/store/memory"
	"warehouse/pkg/requestcontext"
)

type UserServiceSuite struct {
	suite.Suite
	svc         *Service
	jwt         *jwttoken.JWTService
	revocations *revocation.Memory
	audit       *auditmemory.InMemoryStore
	metrics     *metrics.Metrics
}

func TestUserServiceSuite(t *testing.T) {
	password.UseMinCostForTests()
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.jwt = jwttoken.NewJWTService("test-secret", "warehouse")
	s.revocations = revocation.NewMemory(nil)
	s.audit = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	pub := publisher.NewPublisher(s.audit)
	s.svc = New(store.NewInMemory(), s.jwt,
		WithRevocationList(s.revocations),
		WithAuditPublisher(pub),
		WithActivityLister(pub),
		WithTokenTTL(30*time.Minute),
		WithMetrics(s.metrics),
	)
}

func (s *UserServiceSuite) register(email string) *models.Session {
	session, err := s.svc.Register(context.Background(), models.RegisterInput{Name: "N", Email: email, Password: "s3cret!"})
	s.Require().NoError(err)
	return session
}

// principalCtx mirrors what the auth gate puts on the request context.
func (s *UserServiceSuite) principalCtx(session *models.Session) context.Context {
	claims, err := s.jwt.ValidateToken(session.Token)
	s.Require().NoError(err)
	userID, err := id.ParseUserID(claims.UserID)
	s.Require().NoError(err)
	return requestcontext.WithPrincipal(context.Background(), requestcontext.Principal{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (s *UserServiceSuite) TestRegister() {
	first := s.register("Admin@Example.com")
	s.Equal(models.RoleAdmin, first.User.Role)
	s.Equal("admin@example.com", first.User.Email)
	s.NotEmpty(first.Token)
	s.WithinDuration(time.Now().Add(30*time.Minute), first.ExpiresAt, time.Minute)

	second := s.register("clerk@example.com")
	s.Equal(models.RoleUser, second.User.Role)

	_, err := s.svc.Register(context.Background(), models.RegisterInput{Name: "x", Email: "CLERK@example.com", Password: "s3cret!"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(float64(2), promtest.ToFloat64(s.metrics.UsersRegistered))
}

func (s *UserServiceSuite) TestLogin() {
	s.register("ada@example.com")
	ctx := context.Background()

	session, err := s.svc.Login(ctx, " ADA@example.com ", "s3cret!")
	s.Require().NoError(err)
	claims, err := s.jwt.ValidateToken(session.Token)
	s.Require().NoError(err)
	s.Equal("ada@example.com", claims.Email)

	_, err = s.svc.Login(ctx, "ada@example.com", "wrong!")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.svc.Login(ctx, "nobody@example.com", "s3cret!")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	recent, err := s.audit.ListRecent(ctx, 10)
	s.Require().NoError(err)
	failures := 0
	for _, e := range recent {
		if e.Action == string(audit.EventAuthFailed) {
			failures++
		}
	}
	s.Equal(2, failures)
}

func (s *UserServiceSuite) TestLogoutRevokesToken() {
	session := s.register("ada@example.com")
	ctx := s.principalCtx(session)

	s.Require().NoError(s.svc.Logout(ctx))

	claims, err := s.jwt.ValidateToken(session.Token)
	s.Require().NoError(err)
	revoked, err := s.revocations.IsTokenRevoked(context.Background(), claims.ID)
	s.Require().NoError(err)
	s.True(revoked)

	s.True(dErrors.HasCode(s.svc.Logout(context.Background()), dErrors.CodeUnauthorized))
}

func (s *UserServiceSuite) TestMeAndActivity() {
	session := s.register("ada@example.com")
	ctx := s.principalCtx(session)

	me, err := s.svc.Me(ctx)
	s.Require().NoError(err)
	s.Equal(session.User.ID, me.ID)

	events, err := s.svc.Activity(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Equal(string(audit.EventUserRegistered), events[0].Action)
}

func (s *UserServiceSuite) TestPermissions() {
	admin := s.register("admin@example.com")
	clerk := s.register("clerk@example.com")
	clerkCtx := s.principalCtx(clerk)
	adminCtx := s.principalCtx(admin)

	name := "Clerk Kent"
	updated, err := s.svc.Update(clerkCtx, clerk.User.ID, models.Patch{Name: &name})
	s.Require().NoError(err)
	s.Equal(name, updated.Name)

	role := models.RoleAdmin
	_, err = s.svc.Update(clerkCtx, clerk.User.ID, models.Patch{Role: &role})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	_, err = s.svc.Update(clerkCtx, admin.User.ID, models.Patch{Name: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.True(dErrors.HasCode(s.svc.Delete(clerkCtx, admin.User.ID), dErrors.CodeForbidden))

	promoted, err := s.svc.Update(adminCtx, clerk.User.ID, models.Patch{Role: &role})
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, promoted.Role)

	s.Require().NoError(s.svc.Delete(adminCtx, clerk.User.ID))
	_, err = s.svc.Get(adminCtx, clerk.User.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestPasswordIsHashed(t *testing.T) {
	password.UseMinCostForTests()
	svc := New(store.NewInMemory(), jwttoken.NewJWTService("k", "warehouse"))
	session, err := svc.Register(context.Background(), models.RegisterInput{Name: "A", Email: "a@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", session.User.PasswordHash)
	assert.NoError(t, password.Verify("s3cret!", session.User.PasswordHash))
}
