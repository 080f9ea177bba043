// Package lock serializes fulfillment operations on the same order so two
// concurrent updates cannot both restore and re-decrement its stock.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	dErrors "warehouse/pkg/domain-errors"
)

// Locker acquires an exclusive lock on key. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Memory is a process-local keyed mutex.
type Memory struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewMemory() *Memory {
	return &Memory{locks: make(map[string]*entry)}
}

func (m *Memory) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.release(key, e, true) })
	}, nil
}

func (m *Memory) release(key string, e *entry, held bool) {
	if held {
		<-e.ch
	}
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

// Redis holds locks in Redis so several API replicas serialize on the same
// order.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(ttl/(50*time.Millisecond))),
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	l, err := r.client.Obtain(ctx, "warehouse:lock:"+key, r.ttl, &redislock.Options{RetryStrategy: r.retry})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, dErrors.New(dErrors.CodeConflict, "resource is locked by another request, retry shortly")
		}
		return nil, err
	}
	return func() {
		// Release uses a fresh context so a cancelled request still frees the lock.
		_ = l.Release(context.Background())
	}, nil
}
