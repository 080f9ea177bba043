// Package auth gates /api routes behind bearer tokens.
//
// Paths in the public allowlist skip verification. For every other path a
// missing Authorization header is 401, while a bad, expired or revoked token is 403.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"warehouse/pkg/domain"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"

	dErrors "warehouse/pkg/domain-errors"
)

// DefaultPublicPaths never require a token.
var DefaultPublicPaths = []string{"/api/login", "/api/register", "/api/upload"}

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims is the subset of token claims the gate needs.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

// Result is the outcome of Verify.
type Result struct {
	Skip    bool
	Valid   bool
	Claims  *Claims
	Status  int
	Message string
}

type Gate struct {
	verifier    TokenVerifier
	revocations RevocationChecker
	public      map[string]struct{}
	logger      *slog.Logger
}

type Option func(*Gate)

func WithRevocationChecker(c RevocationChecker) Option {
	return func(g *Gate) { g.revocations = c }
}

// WithPublicPaths replaces the default allowlist.
func WithPublicPaths(paths ...string) Option {
	return func(g *Gate) {
		g.public = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			g.public[normalizePath(p)] = struct{}{}
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

func NewGate(verifier TokenVerifier, opts ...Option) *Gate {
	g := &Gate{verifier: verifier, logger: slog.Default()}
	WithPublicPaths(DefaultPublicPaths...)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsPublic reports whether path is in the allowlist.
func (g *Gate) IsPublic(path string) bool {
	_, ok := g.public[normalizePath(path)]
	return ok
}

// Verify inspects the request without writing a response. The error return is
// reserved for revocation lookups that could not complete.
func (g *Gate) Verify(r *http.Request) (Result, error) {
	if g.IsPublic(r.URL.Path) {
		return Result{Skip: true}, nil
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Result{Status: http.StatusUnauthorized, Message: "Access denied. No token provided."}, nil
	}
	token, ok := cutBearer(header)
	if !ok || token == "" {
		return Result{Status: http.StatusUnauthorized, Message: "Access denied. No token provided."}, nil
	}

	claims, err := g.verifier.VerifyToken(token)
	if err != nil {
		return Result{Status: http.StatusForbidden, Message: "Invalid or expired token"}, nil
	}

	if g.revocations != nil && claims.JTI != "" {
		revoked, err := g.revocations.IsTokenRevoked(r.Context(), claims.JTI)
		if err != nil {
			return Result{}, err
		}
		if revoked {
			return Result{Status: http.StatusForbidden, Message: "Token has been revoked"}, nil
		}
	}
	return Result{Valid: true, Claims: claims}, nil
}

// RequireAuth applies Verify and stores the principal on the request context.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		res, err := g.Verify(r)
		if err != nil {
			g.logger.ErrorContext(ctx, "failed to check token revocation",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate token"))
			return
		}
		if res.Skip {
			next.ServeHTTP(w, r)
			return
		}
		if !res.Valid {
			g.logger.WarnContext(ctx, "unauthorized access",
				"request_id", requestID,
				"path", r.URL.Path,
				"reason", res.Message,
			)
			code := dErrors.CodeForbidden
			if res.Status == http.StatusUnauthorized {
				code = dErrors.CodeUnauthorized
			}
			httputil.WriteError(w, dErrors.New(code, res.Message))
			return
		}

		userID, err := domain.ParseUserID(res.Claims.UserID)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Invalid or expired token"))
			return
		}
		ctx = requestcontext.WithPrincipal(ctx, requestcontext.Principal{
			UserID:    userID,
			Email:     res.Claims.Email,
			Role:      res.Claims.Role,
			TokenID:   res.Claims.JTI,
			ExpiresAt: res.Claims.ExpiresAt,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cutBearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
