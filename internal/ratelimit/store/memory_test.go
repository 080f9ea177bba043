package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warehouse/internal/ratelimit/models"
)

var testPolicy = models.Policy{Limit: 3, Window: time.Minute}

type MemorySuite struct {
	suite.Suite
	store *Memory
	clock time.Time
	ctx   context.Context
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemory()
	s.store.now = func() time.Time { return s.clock }
	s.ctx = context.Background()
}

func (s *MemorySuite) TestAllow() {
	s.Run("counts down to the limit", func() {
		for want := testPolicy.Limit - 1; want >= 0; want-- {
			res, err := s.store.Allow(s.ctx, "ip:count", testPolicy)
			s.Require().NoError(err)
			s.True(res.Allowed)
			s.Equal(want, res.Remaining)
			s.Equal(testPolicy.Limit, res.Limit)
		}
	})

	s.Run("rejects over the limit with retry hint", func() {
		for range testPolicy.Limit {
			_, err := s.store.Allow(s.ctx, "ip:over", testPolicy)
			s.Require().NoError(err)
		}
		s.clock = s.clock.Add(20 * time.Second)

		res, err := s.store.Allow(s.ctx, "ip:over", testPolicy)
		s.Require().NoError(err)
		s.False(res.Allowed)
		s.Equal(0, res.Remaining)
		s.Equal(40*time.Second, res.RetryAfter)
	})

	s.Run("keys are independent", func() {
		for range testPolicy.Limit {
			_, err := s.store.Allow(s.ctx, "ip:a", testPolicy)
			s.Require().NoError(err)
		}
		res, err := s.store.Allow(s.ctx, "ip:b", testPolicy)
		s.Require().NoError(err)
		s.True(res.Allowed)
	})
}

func (s *MemorySuite) TestWindowSlides() {
	for range testPolicy.Limit {
		_, err := s.store.Allow(s.ctx, "ip:slide", testPolicy)
		s.Require().NoError(err)
	}

	s.clock = s.clock.Add(testPolicy.Window + time.Second)
	res, err := s.store.Allow(s.ctx, "ip:slide", testPolicy)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(testPolicy.Limit-1, res.Remaining)
}

func (s *MemorySuite) TestReset() {
	for range testPolicy.Limit {
		_, err := s.store.Allow(s.ctx, "ip:reset", testPolicy)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "ip:reset"))

	res, err := s.store.Allow(s.ctx, "ip:reset", testPolicy)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *MemorySuite) TestSweep() {
	_, err := s.store.Allow(s.ctx, "ip:old", testPolicy)
	s.Require().NoError(err)
	s.clock = s.clock.Add(2 * time.Minute)
	_, err = s.store.Allow(s.ctx, "ip:new", testPolicy)
	s.Require().NoError(err)

	s.Equal(1, s.store.Sweep(testPolicy.Window))
	s.Len(s.store.windows, 1)
}
