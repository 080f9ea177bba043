package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warehouse/internal/notification/models"
	id "warehouse/pkg/domain"
	"warehouse/pkg/platform/sentinel"
)

type NotificationStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	clock time.Time
}

func (s *NotificationStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.clock = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
}

func TestNotificationStoreSuite(t *testing.T) {
	suite.Run(t, new(NotificationStoreSuite))
}

func (s *NotificationStoreSuite) add(title string, category models.Category, read bool) *models.Notification {
	s.clock = s.clock.Add(time.Minute)
	n := &models.Notification{
		ID:        id.NewNotificationID(),
		Title:     title,
		Type:      models.TypeInfo,
		Category:  category,
		Read:      read,
		CreatedAt: s.clock,
	}
	s.Require().NoError(s.store.Create(s.ctx, n))
	return n
}

func (s *NotificationStoreSuite) TestCreateIfAbsent() {
	first := &models.Notification{ID: id.NewNotificationID(), Title: "Task Completed", IdempotencyKey: "task-completed:ship"}
	inserted, err := s.store.CreateIfAbsent(s.ctx, first)
	s.Require().NoError(err)
	s.True(inserted)

	again := &models.Notification{ID: id.NewNotificationID(), Title: "Task Completed", IdempotencyKey: "task-completed:ship"}
	inserted, err = s.store.CreateIfAbsent(s.ctx, again)
	s.Require().NoError(err)
	s.False(inserted)

	found, err := s.store.FindByKey(s.ctx, "task-completed:ship")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)

	s.Run("notifications without a key never collide", func() {
		for range 2 {
			ok, err := s.store.CreateIfAbsent(s.ctx, &models.Notification{ID: id.NewNotificationID(), Title: "x"})
			s.Require().NoError(err)
			s.True(ok)
		}
	})
}

func (s *NotificationStoreSuite) TestListFiltersNewestFirst() {
	s.add("old task", models.CategoryTask, true)
	s.add("order", models.CategoryOrder, false)
	s.add("new task", models.CategoryTask, false)

	all, err := s.store.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("new task", all[0].Title)

	unread := false
	got, err := s.store.List(s.ctx, models.ListFilter{Read: &unread, Category: models.CategoryTask})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("new task", got[0].Title)
}

func (s *NotificationStoreSuite) TestReadFlags() {
	a := s.add("a", models.CategorySystem, false)
	s.add("b", models.CategorySystem, false)
	s.add("c", models.CategorySystem, true)

	n, err := s.store.SetRead(s.ctx, a.ID, true)
	s.Require().NoError(err)
	s.True(n.Read)

	changed, err := s.store.MarkAllRead(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, changed)

	_, err = s.store.SetRead(s.ctx, id.NewNotificationID(), true)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *NotificationStoreSuite) TestBulkDelete() {
	a := s.add("a", models.CategorySystem, false)
	b := s.add("b", models.CategorySystem, true)
	s.add("c", models.CategorySystem, true)
	s.add("d", models.CategorySystem, false)

	n, err := s.store.DeleteByIDs(s.ctx, []id.NotificationID{a.ID, b.ID})
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.DeleteRead(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.DeleteAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
