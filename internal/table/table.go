// Package table provides the immutable in-memory table and its query operations.
//
// A Table is an ordered list of uniquely named columns of equal length.
// Every query (Select, Filter, ValueCounts, ...) returns a freshly built
// Table or a scalar and never modifies its receiver, so a Table may be
// shared freely once constructed.
package table

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/validation"
)

// Table represents a table of data with typed columns
type Table struct {
	columns map[string]*series.Series
	order   []string // Maintains column order
	mem     memory.Allocator
}

// New creates a Table from columns, taking ownership of them. It fails with
// a FormatError on duplicate or empty names and a LengthMismatchError when
// the columns differ in length.
func New(mem memory.Allocator, cols ...*series.Series) (*Table, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	checks := []validation.Validator{validation.NewUniqueNamesValidator(names, "New")}
	for _, c := range cols[min(1, len(cols)):] {
		checks = append(checks, validation.NewLengthValidator(cols[0].Len(), c.Len(), "New", c.Name()))
	}
	if err := validation.NewCompoundValidator(checks...).Validate(); err != nil {
		return nil, err
	}

	return build(mem, cols), nil
}

// build assembles a Table without validation; callers guarantee the invariants.
func build(mem memory.Allocator, cols []*series.Series) *Table {
	columns := make(map[string]*series.Series, len(cols))
	order := make([]string, 0, len(cols))
	for _, c := range cols {
		columns[c.Name()] = c
		order = append(order, c.Name())
	}
	return &Table{columns: columns, order: order, mem: mem}
}

// Columns returns the names of all columns in order
func (t *Table) Columns() []string {
	return append([]string{}, t.order...)
}

// Len returns the number of rows
func (t *Table) Len() int {
	if len(t.order) == 0 {
		return 0
	}
	return t.columns[t.order[0]].Len()
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.order)
}

// HasColumn checks if a column exists
func (t *Table) HasColumn(name string) bool {
	_, exists := t.columns[name]
	return exists
}

// Allocator returns the allocator new tables derived from t are built with.
func (t *Table) Allocator() memory.Allocator {
	return t.mem
}

// Column returns the series for the given column name.
func (t *Table) Column(name string) (*series.Series, error) {
	s, exists := t.columns[name]
	if !exists {
		return nil, errors.NewColumnNotFoundError("Column", name)
	}
	return s, nil
}

// Kind returns the storage kind of a column.
func (t *Table) Kind(name string) (series.Kind, error) {
	s, exists := t.columns[name]
	if !exists {
		return series.TextColumn, errors.NewColumnNotFoundError("Kind", name)
	}
	return s.Kind(), nil
}

// Select returns a new Table with only the named columns, in the order given.
// The columns are shared with t through Arrow reference counting.
func (t *Table) Select(names ...string) (*Table, error) {
	if err := validation.ValidateColumns(t, "Select", names...); err != nil {
		return nil, err
	}
	if err := validation.ValidateUniqueNames(names, "Select"); err != nil {
		return nil, err
	}

	cols := make([]*series.Series, len(names))
	for i, name := range names {
		cols[i] = t.columns[name].Retain()
	}
	return build(t.mem, cols), nil
}

// Rename returns a new Table with column old renamed to name.
func (t *Table) Rename(old, name string) (*Table, error) {
	if err := validation.ValidateColumns(t, "Rename", old); err != nil {
		return nil, err
	}

	cols := make([]*series.Series, len(t.order))
	for i, n := range t.order {
		if n == old {
			cols[i] = t.columns[n].Rename(name)
		} else {
			cols[i] = t.columns[n].Retain()
		}
	}
	out, err := New(t.mem, cols...)
	if err != nil {
		for _, c := range cols {
			c.Release()
		}
		return nil, err
	}
	return out, nil
}

// Row returns the row view at index. ok is false when index is out of range.
func (t *Table) Row(index int) (Row, bool) {
	if index < 0 || index >= t.Len() {
		return Row{}, false
	}
	return t.row(index), true
}

func (t *Table) row(index int) Row {
	values := make([]series.Value, len(t.order))
	for i, name := range t.order {
		values[i] = t.columns[name].Value(index)
	}
	return Row{index: index, names: t.order, values: values}
}

// Rows returns every row in order.
func (t *Table) Rows() []Row {
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = t.row(i)
	}
	return rows
}

// take builds a new Table with the rows at indexes, in the given order.
func (t *Table) take(indexes []int) *Table {
	cols := make([]*series.Series, len(t.order))
	for i, name := range t.order {
		cols[i] = t.columns[name].Take(indexes, t.mem)
	}
	return build(t.mem, cols)
}

// Head returns a new Table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.Len()))
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return t.take(indexes)
}

// String returns the schema followed by the rows, aligned in columns.
func (t *Table) String() string {
	if len(t.order) == 0 {
		return "Table[empty]"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table[%dx%d]\n", t.Len(), t.Width())

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(t.order)+1)
	header = append(header, "")
	header = append(header, t.order...)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range t.Rows() {
		cells := make([]string, 0, len(t.order)+1)
		cells = append(cells, fmt.Sprint(row.Index()))
		for _, v := range row.Values() {
			cells = append(cells, v.String())
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}

// Release releases all underlying Arrow memory
func (t *Table) Release() {
	for _, s := range t.columns {
		s.Release()
	}
}
