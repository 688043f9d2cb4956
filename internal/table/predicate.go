package table

import (
	stderrors "errors"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/validation"
)

// Predicate selects rows for Filter.
type Predicate func(Row) bool

// Filter returns a new Table containing only the rows for which pred is
// true, in their original order and with all columns.
func (t *Table) Filter(pred Predicate) *Table {
	indexes := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if pred(t.row(i)) {
			indexes = append(indexes, i)
		}
	}
	return t.take(indexes)
}

// FilterWhere is Filter with column checking: it fails with an
// UnknownColumnError if any of the columns pred reads is missing.
func (t *Table) FilterWhere(pred Predicate, reads ...string) (*Table, error) {
	if err := validation.ValidateColumns(t, "Filter", reads...); err != nil {
		return nil, err
	}
	return t.Filter(pred), nil
}

// Eq matches rows whose column equals value exactly.
// Rows without the column never match.
func Eq(column string, value any) Predicate {
	return compare(column, value, false)
}

// EqFold matches like Eq but compares text case-insensitively.
func EqFold(column string, value any) Predicate {
	return compare(column, value, true)
}

func compare(column string, value any, fold bool) Predicate {
	want, err := series.ValueOf(value)
	if err != nil {
		return func(Row) bool { return false }
	}
	return func(r Row) bool {
		got, ok := r.Get(column)
		return ok && got.Equal(want, fold)
	}
}

// And matches rows every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(r Row) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Or matches rows at least one predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(r Row) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(r Row) bool {
		return !pred(r)
	}
}

// WhereMax returns the rows whose column equals the column's maximum.
func (t *Table) WhereMax(column string) (*Table, error) {
	return t.whereAggregate(column, Max)
}

// WhereMin returns the rows whose column equals the column's minimum.
func (t *Table) WhereMin(column string) (*Table, error) {
	return t.whereAggregate(column, Min)
}

func (t *Table) whereAggregate(column string, op Op) (*Table, error) {
	v, err := t.Aggregate(column, op)
	if err != nil {
		if stderrors.Is(err, errors.ErrEmptyInput) {
			return t.take(nil), nil
		}
		return nil, err
	}
	return t.Filter(Eq(column, v)), nil
}
