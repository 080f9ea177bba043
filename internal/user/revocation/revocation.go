// Package revocation keeps the IDs (jti) of logged-out tokens until the
// tokens would have expired anyway.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warehouse/pkg/platform/sentinel"
)

// List is a token revocation list.
type List interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

// Memory is an in-process revocation list for single instance deployments
// and tests.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   Clock
}

func NewMemory(clock Clock) *Memory {
	if clock == nil {
		clock = time.Now
	}
	return &Memory{revoked: make(map[string]time.Time), clock: clock}
}

func (m *Memory) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	for k, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, k)
		}
	}
	m.revoked[jti] = now.Add(ttl)
	return nil
}

func (m *Memory) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	return !m.clock().After(exp), nil
}
