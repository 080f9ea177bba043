package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	jwttoken "warehouse/internal/jwt_token"
	"warehouse/internal/user/models"
	id "warehouse/pkg/domain"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/password"
	"warehouse/pkg/platform/audit"
	"warehouse/pkg/platform/sentinel"
	"warehouse/pkg/requestcontext"
)

const DefaultTokenTTL = time.Hour

type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, email, role string, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ActivityLister returns the audit trail recorded for a user.
type ActivityLister interface {
	List(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

type Metrics interface {
	IncrementUsersRegistered()
}

type Service struct {
	store          Store
	metrics        Metrics
	tokens         TokenIssuer
	revocations    RevocationList
	activity       ActivityLister
	auditPublisher AuditPublisher
	logger         *slog.Logger
	tokenTTL       time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithActivityLister(l ActivityLister) Option {
	return func(s *Service) {
		s.activity = l
	}
}

func WithRevocationList(l RevocationList) Option {
	return func(s *Service) {
		s.revocations = l
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func New(store Store, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens, logger: slog.Default(), tokenTTL: DefaultTokenTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user and signs them in. The first account becomes an
// admin so a fresh deployment can manage users.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.Session, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	now := requestcontext.Now(ctx)
	u := &models.User{
		ID:           id.NewUserID(),
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if count == 0 {
		u.Role = models.RoleAdmin
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, translate(err, "failed to register user")
	}
	s.emit(ctx, audit.EventUserRegistered, u.ID, "")
	if s.metrics != nil {
		s.metrics.IncrementUsersRegistered()
	}
	return s.issue(u)
}

// Login checks credentials. Unknown emails and wrong passwords get the same
// error.
func (s *Service) Login(ctx context.Context, email, pw string) (*models.Session, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	u, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sentinel.ErrNotFound) {
		s.emit(ctx, audit.EventAuthFailed, id.UserID{}, "unknown email")
		return nil, invalid
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to log in")
	}
	if err := password.Verify(pw, u.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.emit(ctx, audit.EventAuthFailed, u.ID, "wrong password")
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to log in")
	}
	s.emit(ctx, audit.EventUserLoggedIn, u.ID, "")
	return s.issue(u)
}

// Logout revokes the caller's token until it would have expired.
func (s *Service) Logout(ctx context.Context) error {
	p, ok := requestcontext.PrincipalFrom(ctx)
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "not logged in")
	}
	if s.revocations != nil && p.TokenID != "" {
		ttl := p.ExpiresAt.Sub(requestcontext.Now(ctx))
		if ttl > 0 {
			if err := s.revocations.RevokeToken(ctx, p.TokenID, ttl); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
			}
		}
	}
	s.emit(ctx, audit.EventUserLoggedOut, p.UserID, "")
	return nil
}

func (s *Service) issue(u *models.User) (*models.Session, error) {
	tok, err := s.tokens.GenerateAccessToken(uuid.UUID(u.ID), u.Email, string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.Session{Token: tok.Token, ExpiresAt: tok.ExpiresAt, User: u}, nil
}

func (s *Service) Me(ctx context.Context) (*models.User, error) {
	return s.Get(ctx, requestcontext.UserID(ctx))
}

// Activity returns the caller's audit trail in the order it was recorded.
func (s *Service) Activity(ctx context.Context) ([]audit.Event, error) {
	if s.activity == nil {
		return []audit.Event{}, nil
	}
	events, err := s.activity.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity")
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "failed to load user")
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return list, nil
}

// Update lets users edit themselves; admins may edit anyone and change roles.
func (s *Service) Update(ctx context.Context, userID id.UserID, patch models.Patch) (*models.User, error) {
	admin := requestcontext.Role(ctx) == string(models.RoleAdmin)
	if !admin && (userID != requestcontext.UserID(ctx) || patch.Role != nil) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins can change other users or roles")
	}
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "failed to load user")
	}
	if patch.Password != nil {
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = strings.ToLower(*patch.Email)
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, u); err != nil {
		return nil, translate(err, "failed to update user")
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	if requestcontext.Role(ctx) != string(models.RoleAdmin) && userID != requestcontext.UserID(ctx) {
		return dErrors.New(dErrors.CodeForbidden, "only admins can delete other users")
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return translate(err, "failed to delete user")
	}
	s.emit(ctx, audit.EventUserDeleted, userID, "")
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID id.UserID, reason string) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.NewEvent(ctx, action, "user", userID.String())
	if event.UserID.IsNil() {
		event.UserID = userID
	}
	event.Reason = reason
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
