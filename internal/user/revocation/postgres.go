package revocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS token_revocations (
	jti        text PRIMARY KEY,
	expires_at timestamptz NOT NULL
)`

// Postgres persists revoked token IDs through database/sql and lib/pq.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

// OpenPostgres opens dsn with the lib/pq driver and ensures the table exists.
func OpenPostgres(ctx context.Context, dsn string, clock Clock) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open revocation db: %w", err)
	}
	p := NewPostgres(db, clock)
	if err := p.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgres(db *sql.DB, clock Clock) *Postgres {
	if clock == nil {
		clock = time.Now
	}
	return &Postgres{db: db, clock: clock}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create token_revocations: %w", err)
	}
	return nil
}

func (p *Postgres) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO token_revocations (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		jti, p.clock().Add(ttl))
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (p *Postgres) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var expiresAt time.Time
	err := p.db.QueryRowContext(ctx, `SELECT expires_at FROM token_revocations WHERE jti = $1`, jti).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return !p.clock().After(expiresAt), nil
}

// Purge deletes expired rows and reports how many were removed.
func (p *Postgres) Purge(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM token_revocations WHERE expires_at < $1`, p.clock())
	if err != nil {
		return 0, fmt.Errorf("purge token revocations: %w", err)
	}
	return res.RowsAffected()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
