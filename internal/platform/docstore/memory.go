package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"warehouse/pkg/platform/sentinel"
)

type memDoc struct {
	raw    []byte
	fields map[string]any
	seq    uint64
}

type memoryCollection[T any] struct {
	mu     sync.RWMutex
	name   string
	unique []string
	docs   map[string]*memDoc
	seq    uint64
}

func newMemoryCollection[T any](name string, o options) *memoryCollection[T] {
	return &memoryCollection[T]{
		name:   name,
		unique: o.unique,
		docs:   make(map[string]*memDoc),
	}
}

func encode[T any](doc *T) ([]byte, map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encode document: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, fmt.Errorf("document must encode as a JSON object: %w", err)
	}
	return raw, fields, nil
}

func decode[T any](raw []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &out, nil
}

// checkUnique must be called with mu held.
func (c *memoryCollection[T]) checkUnique(id string, fields map[string]any) error {
	for _, f := range c.unique {
		v, _ := fields[f].(string)
		if v == "" {
			continue
		}
		for otherID, d := range c.docs {
			if otherID == id {
				continue
			}
			if ov, _ := d.fields[f].(string); strings.EqualFold(ov, v) {
				return fmt.Errorf("%s.%s %q: %w", c.name, f, v, sentinel.ErrAlreadyUsed)
			}
		}
	}
	return nil
}

func (c *memoryCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, fields, err := encode(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return fmt.Errorf("%s %s: %w", c.name, id, sentinel.ErrAlreadyUsed)
	}
	if err := c.checkUnique(id, fields); err != nil {
		return err
	}
	c.seq++
	c.docs[id] = &memDoc{raw: raw, fields: fields, seq: c.seq}
	return nil
}

func (c *memoryCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	d, ok := c.docs[id]
	var raw []byte
	if ok {
		raw = d.raw
	}
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, sentinel.ErrNotFound)
	}
	return decode[T](raw)
}

func (c *memoryCollection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	docs, err := c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", c.name, sentinel.ErrNotFound)
	}
	return docs[0], nil
}

// match returns the raw bytes of matching documents, captured under the lock.
func (c *memoryCollection[T]) match(ctx context.Context, q Query) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*memDoc
	for _, d := range c.docs {
		if matchesAll(d.fields, q.Filters) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.SortField != "" {
			cmp := compareValues(out[i].fields[q.SortField], out[j].fields[q.SortField])
			if cmp != 0 {
				if q.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		if q.Desc && q.SortField == "" {
			return out[i].seq > out[j].seq
		}
		return out[i].seq < out[j].seq
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	raws := make([][]byte, len(out))
	for i, d := range out {
		raws[i] = d.raw
	}
	return raws, nil
}

func (c *memoryCollection[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	matched, err := c.match(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(matched))
	for _, raw := range matched {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *memoryCollection[T]) Count(ctx context.Context, q Query) (int, error) {
	q.Limit = 0
	matched, err := c.match(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (c *memoryCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, fields, err := encode(doc)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, sentinel.ErrNotFound)
	}
	if err := c.checkUnique(id, fields); err != nil {
		return err
	}
	existing.raw, existing.fields = raw, fields
	return nil
}

func (c *memoryCollection[T]) Update(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, sentinel.ErrNotFound)
	}
	doc, err := decode[T](existing.raw)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	raw, fields, err := encode(doc)
	if err != nil {
		return nil, err
	}
	if err := c.checkUnique(id, fields); err != nil {
		return nil, err
	}
	existing.raw, existing.fields = raw, fields
	return decode[T](raw)
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s %s: %w", c.name, id, sentinel.ErrNotFound)
	}
	delete(c.docs, id)
	return nil
}

func (c *memoryCollection[T]) DeleteMany(ctx context.Context, q Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := q.validate(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, d := range c.docs {
		if matchesAll(d.fields, q.Filters) {
			delete(c.docs, id)
			n++
		}
	}
	return n, nil
}

func matchesAll(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !matches(fields[f.Field], f) {
			return false
		}
	}
	return true
}

func matches(actual any, f Filter) bool {
	switch f.Op {
	case OpEq:
		return reflect.DeepEqual(actual, normalize(f.Value))
	case OpEqFold:
		s, ok := actual.(string)
		want, _ := f.Value.(string)
		return ok && strings.EqualFold(s, want)
	case OpContainsFold:
		s, ok := actual.(string)
		want, _ := f.Value.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(want))
	case OpIn:
		s, ok := actual.(string)
		if !ok {
			return false
		}
		for _, v := range f.Value.([]string) {
			if v == s {
				return true
			}
		}
		return false
	case OpGte, OpLte:
		cmp, ok := compareTo(actual, f.Value)
		if !ok {
			return false
		}
		if f.Op == OpGte {
			return cmp >= 0
		}
		return cmp <= 0
	}
	return false
}

// normalize converts a Go value to what encoding/json decodes into any, so Eq
// compares like-for-like.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// compareTo compares a decoded document value with a filter value.
func compareTo(actual, want any) (int, bool) {
	if t, ok := isTime(want); ok {
		s, ok := actual.(string)
		if !ok {
			return 0, false
		}
		at, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return 0, false
		}
		return at.Compare(t), true
	}
	if w, ok := toFloat(want); ok {
		a, ok := actual.(float64)
		if !ok {
			return 0, false
		}
		return compareFloat(a, w), true
	}
	if w, ok := want.(string); ok {
		a, ok := actual.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(a, w), true
	}
	return 0, false
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return compareFloat(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			at, errA := time.Parse(time.RFC3339Nano, av)
			bt, errB := time.Parse(time.RFC3339Nano, bv)
			if errA == nil && errB == nil {
				return at.Compare(bt)
			}
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if av {
				return 1
			}
			return -1
		}
		return 0
	}
	switch {
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
