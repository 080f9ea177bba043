package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway owns the Postgres pool. It is constructed once in main and passed
// to whatever needs it; Connect is idempotent and safe for concurrent use.
type Gateway struct {
	dsn    string
	logger *slog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewGateway(dsn string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{dsn: dsn, logger: logger}
}

// Enabled reports whether a DSN was configured. Without one, collections are in-memory.
func (g *Gateway) Enabled() bool {
	return g.dsn != ""
}

// Connect opens the pool on first use and returns the same pool afterwards.
// It returns nil without error when no DSN is configured.
func (g *Gateway) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	if !g.Enabled() {
		return nil, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		return g.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(g.dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	g.logger.InfoContext(ctx, "database connected",
		"host", cfg.ConnConfig.Host,
		"database", cfg.ConnConfig.Database,
	)
	g.pool = pool
	return pool, nil
}

// Health pings the pool if connected.
func (g *Gateway) Health(ctx context.Context) error {
	g.mu.Lock()
	pool := g.pool
	g.mu.Unlock()
	if pool == nil {
		return nil
	}
	return pool.Ping(ctx)
}

func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		g.pool.Close()
		g.pool = nil
	}
}
