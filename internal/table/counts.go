package table

import (
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
)

// CountColumn is the name of the count column produced by ValueCounts.
const CountColumn = "Count"

// ValueCounts counts rows per distinct value of column, using exact
// matching. With values given, the result has one row per requested value
// in that order, zero when absent; otherwise one row per distinct value in
// order of first appearance. The result has two columns: column and Count.
func (t *Table) ValueCounts(column string, values ...any) (*Table, error) {
	s, exists := t.columns[column]
	if !exists {
		return nil, errors.NewColumnNotFoundError("ValueCounts", column)
	}

	ix, err := t.Index(column, WithFoldCase(false))
	if err != nil {
		return nil, err
	}

	keys := ix.Keys()
	if len(values) > 0 {
		keys = make([]series.Value, len(values))
		for i, v := range values {
			keys[i], err = series.ValueOf(v)
			if err != nil {
				return nil, &errors.TableError{
					Kind:    errors.KindTypeUnsupported,
					Op:      "ValueCounts",
					Column:  column,
					Message: "unsupported value",
					Cause:   err,
				}
			}
		}
	}

	counts := make([]int64, len(keys))
	for i, k := range keys {
		counts[i] = int64(ix.Count(k))
	}

	keyCol := seriesFromValues(column, s.Kind(), keys, t)
	countCol := series.NewInt(CountColumn, counts, t.mem)
	out, err := New(t.mem, keyCol, countCol)
	if err != nil {
		keyCol.Release()
		countCol.Release()
		return nil, err
	}
	return out, nil
}

// seriesFromValues builds a column of kind from values, falling back to
// text when a value does not fit the kind.
func seriesFromValues(name string, kind series.Kind, values []series.Value, t *Table) *series.Series {
	for _, v := range values {
		if v.Kind() != kind && !(kind == series.FloatColumn && v.Kind() == series.IntColumn) {
			kind = series.TextColumn
			break
		}
	}

	switch kind {
	case series.IntColumn:
		ints := make([]int64, len(values))
		for i, v := range values {
			ints[i] = v.Int()
		}
		return series.NewInt(name, ints, t.mem)
	case series.FloatColumn:
		floats := make([]float64, len(values))
		for i, v := range values {
			floats[i] = v.Float()
		}
		return series.NewFloat(name, floats, t.mem)
	default:
		text := make([]string, len(values))
		for i, v := range values {
			text[i] = v.String()
		}
		return series.NewText(name, text, t.mem)
	}
}
