package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// pgCollection stores each document as a JSONB row. Table and field names are
// validated against strict patterns before being interpolated into SQL.
type pgCollection[T any] struct {
	pool   *pgxpool.Pool
	table  string
	unique []string
}

func (c *pgCollection[T]) ensureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id text PRIMARY KEY,
			doc jsonb NOT NULL,
			seq bigserial,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, c.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_seq_idx ON %s (seq)`, c.table, c.table),
	}
	for _, f := range c.unique {
		stmts = append(stmts, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s_%s_uniq ON %s (lower(doc->>'%s')) WHERE coalesce(doc->>'%s', '') <> ''`,
			c.table, strings.ToLower(f), c.table, f, f))
	}
	for _, stmt := range stmts {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema for %s: %w", c.table, err)
		}
	}
	return nil
}

func mapWriteErr(table, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %s (%s): %w", table, id, pgErr.ConstraintName, sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("write %s %s: %w", table, id, err)
}

func (c *pgCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, c.table)
	if _, err := c.pool.Exec(ctx, query, id, raw); err != nil {
		return mapWriteErr(c.table, id, err)
	}
	return nil
}

func (c *pgCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)
	if err := c.pool.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", c.table, id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %s: %w", c.table, id, err)
	}
	return decode[T](raw)
}

func (c *pgCollection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	docs, err := c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", c.table, sentinel.ErrNotFound)
	}
	return docs[0], nil
}

func (c *pgCollection[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s%s ORDER BY %s`, c.table, where, orderBy(q))
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.table, err)
	}
	return out, nil
}

func (c *pgCollection[T]) Count(ctx context.Context, q Query) (int, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf(`SELECT count(*) FROM %s%s`, c.table, where)
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.table, err)
	}
	return n, nil
}

func (c *pgCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1`, c.table)
	tag, err := c.pool.Exec(ctx, query, id, raw)
	if err != nil {
		return mapWriteErr(c.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", c.table, id, sentinel.ErrNotFound)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (c *pgCollection[T]) Update(ctx context.Context, id string, fn func(*T) error) (_ *T, err error) {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin update %s: %w", c.table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var raw []byte
	selectQuery := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 FOR UPDATE`, c.table)
	if err = tx.QueryRow(ctx, selectQuery, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", c.table, id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock %s %s: %w", c.table, id, err)
	}
	doc, err := decode[T](raw)
	if err != nil {
		return nil, err
	}
	if err = fn(doc); err != nil {
		return nil, err
	}
	updated, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	updateQuery := fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1`, c.table)
	if _, err = tx.Exec(ctx, updateQuery, id, updated); err != nil {
		return nil, mapWriteErr(c.table, id, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update %s: %w", c.table, err)
	}
	return doc, nil
}

func (c *pgCollection[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	tag, err := c.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", c.table, id, sentinel.ErrNotFound)
	}
	return nil
}

func (c *pgCollection[T]) DeleteMany(ctx context.Context, q Query) (int, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return 0, err
	}
	tag, err := c.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s%s`, c.table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete many %s: %w", c.table, err)
	}
	return int(tag.RowsAffected()), nil
}

func orderBy(q Query) string {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	if q.SortField == "" {
		return "seq " + dir
	}
	return fmt.Sprintf("doc->'%s' %s NULLS FIRST, seq ASC", q.SortField, dir)
}

// buildWhere renders filters as a WHERE clause with positional arguments.
// Field names are already validated by Query.validate.
func buildWhere(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		n := len(args) + 1
		switch f.Op {
		case OpEq:
			raw, err := json.Marshal(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("encode filter %s: %w", f.Field, err)
			}
			clauses = append(clauses, fmt.Sprintf("doc->'%s' = $%d::jsonb", f.Field, n))
			args = append(args, string(raw))
		case OpEqFold:
			clauses = append(clauses, fmt.Sprintf("lower(doc->>'%s') = lower($%d)", f.Field, n))
			args = append(args, f.Value)
		case OpContainsFold:
			clauses = append(clauses, fmt.Sprintf("strpos(lower(doc->>'%s'), lower($%d)) > 0", f.Field, n))
			args = append(args, f.Value)
		case OpIn:
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' = ANY($%d::text[])", f.Field, n))
			args = append(args, f.Value)
		case OpGte, OpLte:
			cmp := ">="
			if f.Op == OpLte {
				cmp = "<="
			}
			switch {
			case isTimeValue(f.Value):
				clauses = append(clauses, fmt.Sprintf("(doc->>'%s')::timestamptz %s $%d", f.Field, cmp, n))
			case isNumber(f.Value):
				clauses = append(clauses, fmt.Sprintf("(doc->>'%s')::numeric %s $%d", f.Field, cmp, n))
			default:
				clauses = append(clauses, fmt.Sprintf("doc->>'%s' %s $%d", f.Field, cmp, n))
			}
			args = append(args, f.Value)
		default:
			return "", nil, fmt.Errorf("unsupported op %q", f.Op)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func isTimeValue(v any) bool {
	_, ok := isTime(v)
	return ok
}

func isNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}
