package docstore

import (
	"fmt"
	"time"
)

// Op is a filter comparison.
type Op string

const (
	OpEq           Op = "eq"
	OpEqFold       Op = "eq_fold"
	OpContainsFold Op = "contains_fold"
	OpGte          Op = "gte"
	OpLte          Op = "lte"
	OpIn           Op = "in"
)

// Filter compares a top-level JSON field against Value. For OpGte and OpLte,
// a time.Time Value compares chronologically and a numeric Value numerically.
// OpIn expects a []string.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects documents. Results are ordered by SortField when set,
// otherwise by insertion order.
type Query struct {
	Filters   []Filter
	SortField string
	Desc      bool
	Limit     int
}

// Where starts a query with the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

func Eq(field string, v any) Filter           { return Filter{Field: field, Op: OpEq, Value: v} }
func EqFold(field, v string) Filter           { return Filter{Field: field, Op: OpEqFold, Value: v} }
func ContainsFold(field, v string) Filter     { return Filter{Field: field, Op: OpContainsFold, Value: v} }
func Gte(field string, v any) Filter          { return Filter{Field: field, Op: OpGte, Value: v} }
func Lte(field string, v any) Filter          { return Filter{Field: field, Op: OpLte, Value: v} }
func In(field string, values []string) Filter { return Filter{Field: field, Op: OpIn, Value: values} }

// And appends filters.
func (q Query) And(filters ...Filter) Query {
	q.Filters = append(append([]Filter{}, q.Filters...), filters...)
	return q
}

// OrderBy sorts by a top-level field.
func (q Query) OrderBy(field string, desc bool) Query {
	q.SortField = field
	q.Desc = desc
	return q
}

func (q Query) validate() error {
	for _, f := range q.Filters {
		if !fieldName.MatchString(f.Field) {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
		switch f.Op {
		case OpEq, OpEqFold, OpContainsFold, OpGte, OpLte:
		case OpIn:
			if _, ok := f.Value.([]string); !ok {
				return fmt.Errorf("filter %s: in expects []string", f.Field)
			}
		default:
			return fmt.Errorf("filter %s: unsupported op %q", f.Field, f.Op)
		}
	}
	if q.SortField != "" && !fieldName.MatchString(q.SortField) {
		return fmt.Errorf("invalid sort field %q", q.SortField)
	}
	if q.Limit < 0 {
		return fmt.Errorf("invalid limit %d", q.Limit)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func isTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}
