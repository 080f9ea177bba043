package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/pkg/platform/sentinel"
)

type widget struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	Active    bool      `json:"isActive"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type factory func(t *testing.T, opts ...Option) Collection[widget]

func newWidget(name, category string, stock int) *widget {
	return &widget{ID: uuid.NewString(), Name: name, Category: category, Stock: stock, Active: true, CreatedAt: time.Now().UTC()}
}

// runContract exercises behavior every backend must share.
func runContract(t *testing.T, newCollection factory) {
	ctx := context.Background()

	t.Run("insert then get returns a copy", func(t *testing.T) {
		c := newCollection(t)
		w := newWidget("Widget", "tools", 10)
		require.NoError(t, c.Insert(ctx, w.ID, w))

		got, err := c.Get(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)

		got.Stock = 0
		again, err := c.Get(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, again.Stock)
	})

	t.Run("duplicate id is already used", func(t *testing.T) {
		c := newCollection(t)
		w := newWidget("Widget", "tools", 1)
		require.NoError(t, c.Insert(ctx, w.ID, w))
		err := c.Insert(ctx, w.ID, w)
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		c := newCollection(t)
		_, err := c.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.ErrorIs(t, c.Delete(ctx, uuid.NewString()), sentinel.ErrNotFound)
		_, err = c.Update(ctx, uuid.NewString(), func(*widget) error { return nil })
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("unique fields are case-insensitive", func(t *testing.T) {
		c := newCollection(t, WithUnique("email"))
		a := newWidget("A", "x", 0)
		a.Email = "Ops@Example.com"
		require.NoError(t, c.Insert(ctx, a.ID, a))

		b := newWidget("B", "x", 0)
		b.Email = "ops@example.com"
		assert.ErrorIs(t, c.Insert(ctx, b.ID, b), sentinel.ErrAlreadyUsed)

		blank1, blank2 := newWidget("C", "x", 0), newWidget("D", "x", 0)
		require.NoError(t, c.Insert(ctx, blank1.ID, blank1))
		require.NoError(t, c.Insert(ctx, blank2.ID, blank2), "empty values are unconstrained")
	})

	t.Run("find filters and orders", func(t *testing.T) {
		c := newCollection(t)
		for i, name := range []string{"Blue Widget", "Red Gadget", "Green widget"} {
			w := newWidget(name, "tools", i*5)
			w.Position = 3 - i
			if i == 1 {
				w.Category = "toys"
			}
			require.NoError(t, c.Insert(ctx, w.ID, w))
		}

		tools, err := c.Find(ctx, Where(Eq("category", "tools")))
		require.NoError(t, err)
		require.Len(t, tools, 2)
		assert.Equal(t, "Blue Widget", tools[0].Name, "insertion order by default")

		search, err := c.Find(ctx, Where(ContainsFold("name", "WIDGET")))
		require.NoError(t, err)
		assert.Len(t, search, 2)

		stocked, err := c.Find(ctx, Where(Gte("stock", 5)))
		require.NoError(t, err)
		assert.Len(t, stocked, 2)

		byPosition, err := c.Find(ctx, Query{}.OrderBy("position", false))
		require.NoError(t, err)
		require.Len(t, byPosition, 3)
		assert.Equal(t, "Green widget", byPosition[0].Name)

		n, err := c.Count(ctx, Where(EqFold("category", "TOOLS")))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		latest, err := c.Find(ctx, Query{Desc: true, Limit: 1})
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, "Green widget", latest[0].Name)
	})

	t.Run("find one reports not found", func(t *testing.T) {
		c := newCollection(t)
		_, err := c.FindOne(ctx, Where(Eq("name", "nope")))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("time range filters", func(t *testing.T) {
		c := newCollection(t)
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for i := range 3 {
			w := newWidget(fmt.Sprintf("w%d", i), "x", 0)
			w.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
			require.NoError(t, c.Insert(ctx, w.ID, w))
		}
		got, err := c.Find(ctx, Where(Gte("createdAt", base.Add(time.Hour)), Lte("createdAt", base.Add(72*time.Hour))))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("update aborts on callback error", func(t *testing.T) {
		c := newCollection(t)
		w := newWidget("Widget", "tools", 3)
		require.NoError(t, c.Insert(ctx, w.ID, w))

		boom := errors.New("insufficient")
		_, err := c.Update(ctx, w.ID, func(d *widget) error {
			d.Stock = -1
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := c.Get(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("concurrent updates do not lose writes", func(t *testing.T) {
		c := newCollection(t)
		w := newWidget("Widget", "tools", 0)
		require.NoError(t, c.Insert(ctx, w.ID, w))

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.Update(ctx, w.ID, func(d *widget) error {
					d.Stock++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := c.Get(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, got.Stock)
	})

	t.Run("replace and delete many", func(t *testing.T) {
		c := newCollection(t)
		a, b := newWidget("A", "x", 1), newWidget("B", "y", 1)
		require.NoError(t, c.Insert(ctx, a.ID, a))
		require.NoError(t, c.Insert(ctx, b.ID, b))

		a.Active = false
		require.NoError(t, c.Replace(ctx, a.ID, a))

		n, err := c.DeleteMany(ctx, Where(Eq("isActive", false)))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = c.DeleteMany(ctx, Where(In("id", []string{b.ID, uuid.NewString()})))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		left, err := c.Count(ctx, Query{})
		require.NoError(t, err)
		assert.Zero(t, left)
	})
}
