package series

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the storage kind of a column, decided once when the column is built.
type Kind int

const (
	// TextColumn stores UTF-8 strings.
	TextColumn Kind = iota
	// IntColumn stores 64-bit signed integers.
	IntColumn
	// FloatColumn stores 64-bit floats.
	FloatColumn
)

// String returns the kind name used in messages and String() output.
func (k Kind) String() string {
	switch k {
	case IntColumn:
		return "int"
	case FloatColumn:
		return "float"
	default:
		return "text"
	}
}

// Numeric reports whether mean/min/max are defined for the kind.
func (k Kind) Numeric() bool {
	return k == IntColumn || k == FloatColumn
}

// Value is a tagged scalar taken from a column cell or produced by an aggregate.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Int wraps an integer.
func Int(v int64) Value { return Value{kind: IntColumn, i: v} }

// Float wraps a float.
func Float(v float64) Value { return Value{kind: FloatColumn, f: v} }

// Text wraps a string.
func Text(v string) Value { return Value{kind: TextColumn, s: v} }

// ValueOf converts a Go scalar into a Value. Supported inputs are the Value
// type itself, string, int, int32, int64, float32 and float64.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload; floats are truncated and text yields 0.
func (v Value) Int() int64 {
	switch v.kind {
	case IntColumn:
		return v.i
	case FloatColumn:
		return int64(v.f)
	default:
		return 0
	}
}

// Float returns the numeric payload as float64; text yields 0.
func (v Value) Float() float64 {
	switch v.kind {
	case IntColumn:
		return float64(v.i)
	case FloatColumn:
		return v.f
	default:
		return 0
	}
}

// Text returns the textual form of the value.
func (v Value) Text() string {
	return v.String()
}

// Any returns the payload as int64, float64 or string.
func (v Value) Any() any {
	switch v.kind {
	case IntColumn:
		return v.i
	case FloatColumn:
		return v.f
	default:
		return v.s
	}
}

// String formats the value the way the CSV writer emits it.
func (v Value) String() string {
	switch v.kind {
	case IntColumn:
		return strconv.FormatInt(v.i, 10)
	case FloatColumn:
		return formatFloat(v.f)
	default:
		return v.s
	}
}

// formatFloat keeps a decimal point on integral floats so the text reads
// back as a float column.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEN") || strings.Contains(s, "Inf") {
		return s
	}
	return s + ".0"
}

// Equal compares two values. Numbers compare by magnitude across int and
// float; text compares exactly, or case-insensitively when fold is set.
// A number never equals text.
func (v Value) Equal(other Value, fold bool) bool {
	if v.kind.Numeric() != other.kind.Numeric() {
		return false
	}
	if v.kind == IntColumn && other.kind == IntColumn {
		return v.i == other.i
	}
	if v.kind.Numeric() {
		return v.Float() == other.Float()
	}
	if fold {
		return strings.EqualFold(v.s, other.s)
	}
	return v.s == other.s
}
