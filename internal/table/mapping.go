package table

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/validation"
)

// Mapping is the column-name-to-sequence form of a table. Sequences are
// []int64, []int, []float64 or []string.
type Mapping map[string]any

// FromMapping builds a Table from in-memory columns. Columns named in order
// come first, in that order; any remaining columns follow sorted by name.
// It fails with a LengthMismatchError when the sequences differ in length.
func FromMapping(m Mapping, mem memory.Allocator, order ...string) (*Table, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	names, err := mappingOrder(m, order)
	if err != nil {
		return nil, err
	}

	cols := make([]*series.Series, 0, len(names))
	release := func() {
		for _, c := range cols {
			c.Release()
		}
	}
	for _, name := range names {
		c, err := seriesFromSequence(name, m[name], mem)
		if err != nil {
			release()
			return nil, err
		}
		if len(cols) > 0 {
			if err := validation.ValidateLength(cols[0].Len(), c.Len(), "FromMapping", name); err != nil {
				c.Release()
				release()
				return nil, err
			}
		}
		cols = append(cols, c)
	}

	return build(mem, cols), nil
}

func mappingOrder(m Mapping, order []string) ([]string, error) {
	if err := validation.ValidateUniqueNames(order, "FromMapping"); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(m))
	listed := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := m[name]; !ok {
			return nil, errors.NewColumnNotFoundError("FromMapping", name)
		}
		listed[name] = true
		names = append(names, name)
	}

	rest := make([]string, 0, len(m)-len(order))
	for name := range m {
		if !listed[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	names = append(names, rest...)
	if err := validation.ValidateUniqueNames(names, "FromMapping"); err != nil {
		return nil, err
	}
	return names, nil
}

func seriesFromSequence(name string, seq any, mem memory.Allocator) (*series.Series, error) {
	switch v := seq.(type) {
	case []int64:
		return series.NewInt(name, v, mem), nil
	case []int:
		ints := make([]int64, len(v))
		for i, x := range v {
			ints[i] = int64(x)
		}
		return series.NewInt(name, ints, mem), nil
	case []float64:
		return series.NewFloat(name, v, mem), nil
	case []string:
		return series.NewText(name, v, mem), nil
	default:
		return nil, errors.NewUnsupportedTypeError("FromMapping", name, fmt.Sprintf("%T", seq))
	}
}

// ToMapping returns every column as a plain Go slice keyed by name.
func (t *Table) ToMapping() Mapping {
	m := make(Mapping, len(t.order))
	for _, name := range t.order {
		m[name] = t.columns[name].Slice()
	}
	return m
}

// ToMap builds a dictionary from two columns, keyed by the text form of
// keyColumn. Later duplicates do not overwrite earlier keys.
func (t *Table) ToMap(keyColumn, valueColumn string) (map[string]series.Value, error) {
	if err := validation.ValidateColumns(t, "ToMap", keyColumn, valueColumn); err != nil {
		return nil, err
	}

	keys := t.columns[keyColumn]
	values := t.columns[valueColumn]
	out := make(map[string]series.Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		k := keys.Value(i).String()
		if _, seen := out[k]; !seen {
			out[k] = values.Value(i)
		}
	}
	return out, nil
}
