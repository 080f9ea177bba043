package store

import (
	"context"
	"sync"
	"time"

	"warehouse/internal/ratelimit/models"
)

// Memory keeps a sliding window of request timestamps per key. It is local
// to the process; use Redis when several instances share a limit.
type Memory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (s *Memory) Allow(_ context.Context, key string, policy models.Policy) (models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.windows[key], now.Add(-policy.Window))

	if len(stamps) >= policy.Limit {
		s.windows[key] = stamps
		resetAt := stamps[0].Add(policy.Window)
		return models.Result{
			Limit:      policy.Limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}

	stamps = append(stamps, now)
	s.windows[key] = stamps
	return models.Result{
		Allowed:   true,
		Limit:     policy.Limit,
		Remaining: policy.Limit - len(stamps),
		ResetAt:   stamps[0].Add(policy.Window),
	}, nil
}

// Reset forgets every request recorded for key.
func (s *Memory) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Sweep drops keys whose windows have fully expired.
func (s *Memory) Sweep(window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window)
	removed := 0
	for key, stamps := range s.windows {
		if len(prune(stamps, cutoff)) == 0 {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
