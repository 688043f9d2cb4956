// Package series provides the typed column storage behind a table.
//
// A Series is one named column backed by an Apache Arrow array. Its Kind
// (int, float or text) is fixed at construction, so readers switch on the
// kind once instead of inspecting each cell.
package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Element is the set of Go types a Series can be built from.
type Element interface {
	int64 | float64 | string
}

// Series represents a named, typed column with an Apache Arrow backend
type Series struct {
	name  string
	kind  Kind
	array arrow.Array
}

// New creates a Series from a slice of values, choosing the kind from T.
func New[T Element](name string, values []T, mem memory.Allocator) *Series {
	switch v := any(values).(type) {
	case []int64:
		return NewInt(name, v, mem)
	case []float64:
		return NewFloat(name, v, mem)
	case []string:
		return NewText(name, v, mem)
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}
}

// NewInt creates an integer column.
func NewInt(name string, values []int64, mem memory.Allocator) *Series {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewInt64Builder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Series{name: name, kind: IntColumn, array: builder.NewArray()}
}

// NewFloat creates a floating-point column.
func NewFloat(name string, values []float64, mem memory.Allocator) *Series {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewFloat64Builder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Series{name: name, kind: FloatColumn, array: builder.NewArray()}
}

// NewText creates a text column.
func NewText(name string, values []string, mem memory.Allocator) *Series {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewStringBuilder(mem)
	defer builder.Release()
	builder.AppendValues(values, nil)
	return &Series{name: name, kind: TextColumn, array: builder.NewArray()}
}

// Name returns the column name
func (s *Series) Name() string {
	return s.name
}

// Kind returns the storage kind.
func (s *Series) Kind() Kind {
	return s.kind
}

// Len returns the length of the series
func (s *Series) Len() int {
	return s.array.Len()
}

// Value returns the cell at index as a tagged Value. Out-of-range indexes
// yield the zero value of the column's kind.
func (s *Series) Value(index int) Value {
	if index < 0 || index >= s.array.Len() {
		return Value{kind: s.kind}
	}

	switch arr := s.array.(type) {
	case *array.Int64:
		return Int(arr.Value(index))
	case *array.Float64:
		return Float(arr.Value(index))
	case *array.String:
		return Text(arr.Value(index))
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}
}

// Values returns every cell in row order.
func (s *Series) Values() []Value {
	out := make([]Value, s.Len())
	for i := range out {
		out[i] = s.Value(i)
	}
	return out
}

// Ints returns the column as []int64; ok is false unless the kind is IntColumn.
func (s *Series) Ints() ([]int64, bool) {
	arr, ok := s.array.(*array.Int64)
	if !ok {
		return nil, false
	}
	return append([]int64(nil), arr.Int64Values()...), true
}

// Floats returns the column as []float64, widening integers.
// ok is false for text columns.
func (s *Series) Floats() ([]float64, bool) {
	switch arr := s.array.(type) {
	case *array.Float64:
		return append([]float64(nil), arr.Float64Values()...), true
	case *array.Int64:
		out := make([]float64, arr.Len())
		for i := range out {
			out[i] = float64(arr.Value(i))
		}
		return out, true
	default:
		return nil, false
	}
}

// Strings returns the textual form of every cell.
func (s *Series) Strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.Value(i).String()
	}
	return out
}

// Slice returns the column as a plain Go slice: []int64, []float64 or []string.
func (s *Series) Slice() any {
	switch s.kind {
	case IntColumn:
		v, _ := s.Ints()
		return v
	case FloatColumn:
		v, _ := s.Floats()
		return v
	default:
		return s.Strings()
	}
}

// Take builds a new Series holding the cells at the given indexes, in order.
// The receiver is left untouched.
func (s *Series) Take(indexes []int, mem memory.Allocator) *Series {
	switch arr := s.array.(type) {
	case *array.Int64:
		values := make([]int64, len(indexes))
		for i, idx := range indexes {
			values[i] = arr.Value(idx)
		}
		return NewInt(s.name, values, mem)
	case *array.Float64:
		values := make([]float64, len(indexes))
		for i, idx := range indexes {
			values[i] = arr.Value(idx)
		}
		return NewFloat(s.name, values, mem)
	default:
		values := make([]string, len(indexes))
		for i, idx := range indexes {
			values[i] = s.Value(idx).s
		}
		return NewText(s.name, values, mem)
	}
}

// Retain increments the reference count of the backing array and returns s,
// so the same column can be shared by several tables.
func (s *Series) Retain() *Series {
	s.array.Retain()
	return s
}

// Rename returns a Series with a new name sharing the receiver's data.
func (s *Series) Rename(name string) *Series {
	s.array.Retain()
	return &Series{name: name, kind: s.kind, array: s.array}
}

// String returns a string representation of the series
func (s *Series) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.kind, s.name, s.Len())
}

// Release releases the underlying Arrow memory
func (s *Series) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
