// Package docstore is the persistence gateway: typed JSON document collections
// backed either by process memory or by one Postgres JSONB table per collection.
//
// Stores in the resource modules wrap a Collection[T] and translate its
// sentinel errors (sentinel.ErrNotFound, sentinel.ErrAlreadyUsed) into domain
// errors at the service layer.
package docstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Collection is a set of documents of one entity type keyed by ID.
type Collection[T any] interface {
	// Insert stores a new document. Duplicate IDs or unique-field values
	// return sentinel.ErrAlreadyUsed.
	Insert(ctx context.Context, id string, doc *T) error
	Get(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, q Query) (*T, error)
	Find(ctx context.Context, q Query) ([]*T, error)
	Count(ctx context.Context, q Query) (int, error)
	Replace(ctx context.Context, id string, doc *T) error
	// Update applies fn to the current document atomically with respect to
	// other Update calls on the same ID. An error from fn aborts the write
	// and is returned as-is.
	Update(ctx context.Context, id string, fn func(*T) error) (*T, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, q Query) (int, error)
}

type options struct {
	unique []string
}

type Option func(*options)

// WithUnique enforces case-insensitive uniqueness of a top-level string field.
// Empty values are not constrained.
func WithUnique(fields ...string) Option {
	return func(o *options) { o.unique = append(o.unique, fields...) }
}

var (
	collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)
	fieldName      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)
)

// NewCollection returns a Postgres-backed collection when pool is non-nil and
// an in-memory one otherwise.
func NewCollection[T any](ctx context.Context, pool *pgxpool.Pool, name string, opts ...Option) (Collection[T], error) {
	if !collectionName.MatchString(name) {
		return nil, fmt.Errorf("invalid collection name %q", name)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	for _, f := range o.unique {
		if !fieldName.MatchString(f) {
			return nil, fmt.Errorf("invalid unique field %q", f)
		}
	}

	if pool == nil {
		return newMemoryCollection[T](name, o), nil
	}
	c := &pgCollection[T]{pool: pool, table: name, unique: o.unique}
	if err := c.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// MustMemory returns an in-memory collection, panicking on a bad name.
// Intended for tests and wiring defaults.
func MustMemory[T any](name string, opts ...Option) Collection[T] {
	c, err := NewCollection[T](context.Background(), nil, name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}
