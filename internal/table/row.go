package table

import (
	"github.com/paveg/tabular/internal/series"
)

// Row is a read-only view of one record across all columns.
type Row struct {
	index  int
	names  []string
	values []series.Value
}

// Index returns the row's position in the table it was read from.
func (r Row) Index() int {
	return r.index
}

// Get returns the value of the named column.
func (r Row) Get(name string) (series.Value, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return series.Value{}, false
}

// Names returns the column names in table order.
func (r Row) Names() []string {
	return append([]string{}, r.names...)
}

// Values returns the cell values in table order.
func (r Row) Values() []series.Value {
	return append([]series.Value{}, r.values...)
}

// Map returns the row as column name to int64, float64 or string.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i].Any()
	}
	return m
}

// IsZero reports whether r is the empty Row returned on a miss.
func (r Row) IsZero() bool {
	return r.names == nil
}
