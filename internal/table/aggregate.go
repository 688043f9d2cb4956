package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"golang.org/x/exp/constraints"
)

// Op is a column reduction.
type Op int

const (
	// Mean is the arithmetic average, always returned as a float.
	Mean Op = iota
	// Max is the largest value; ties resolve to the first occurrence.
	Max
	// Min is the smallest value; ties resolve to the first occurrence.
	Min
	// Count is the number of rows.
	Count
)

// String returns the lower-case op name.
func (op Op) String() string {
	switch op {
	case Mean:
		return "mean"
	case Max:
		return "max"
	case Min:
		return "min"
	case Count:
		return "count"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// ParseOp converts "mean", "max", "min" or "count" (any case) to an Op.
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mean", "avg":
		return Mean, nil
	case "max":
		return Max, nil
	case "min":
		return Min, nil
	case "count":
		return Count, nil
	default:
		return 0, fmt.Errorf("unknown aggregate %q (want mean, max, min or count)", name)
	}
}

type number interface {
	constraints.Integer | constraints.Float
}

// Aggregate reduces a column to a scalar. mean/max/min fail with a
// TypeUnsupportedError on text columns and an EmptyInputError on an empty
// table; count works on any column.
func (t *Table) Aggregate(column string, op Op) (series.Value, error) {
	s, exists := t.columns[column]
	if !exists {
		return series.Value{}, errors.NewColumnNotFoundError("Aggregate", column)
	}

	if op == Count {
		return series.Int(int64(s.Len())), nil
	}
	if op != Mean && op != Max && op != Min {
		return series.Value{}, &errors.TableError{
			Kind:    errors.KindTypeUnsupported,
			Op:      "Aggregate",
			Column:  column,
			Message: fmt.Sprintf("unsupported aggregate %s", op),
		}
	}
	if !s.Kind().Numeric() {
		return series.Value{}, errors.NewUnsupportedTypeError("Aggregate", column, s.Kind().String())
	}
	if s.Len() == 0 {
		return series.Value{}, &errors.TableError{
			Kind:    errors.KindEmptyInput,
			Op:      "Aggregate",
			Column:  column,
			Message: fmt.Sprintf("%s of an empty column", op),
		}
	}

	if s.Kind() == series.IntColumn {
		ints, _ := s.Ints()
		return reduce(ints, op, series.Int), nil
	}
	floats, _ := s.Floats()
	return reduce(floats, op, series.Float), nil
}

func reduce[T number](values []T, op Op, wrap func(T) series.Value) series.Value {
	switch op {
	case Mean:
		return series.Float(mean(values))
	case Max:
		return wrap(values[extremum(values, func(a, b T) bool { return a > b })])
	default:
		return wrap(values[extremum(values, func(a, b T) bool { return a < b })])
	}
}

func mean[T number](values []T) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// extremum returns the index of the first value no other value beats.
// NaN never wins and is skipped as a starting point.
func extremum[T constraints.Ordered](values []T, beats func(a, b T) bool) int {
	best := 0
	for best < len(values)-1 && values[best] != values[best] {
		best++
	}
	for i := best + 1; i < len(values); i++ {
		if beats(values[i], values[best]) {
			best = i
		}
	}
	return best
}

// Describe returns count, mean, min and max for every numeric column, as a
// table with one row per statistic.
func (t *Table) Describe() (*Table, error) {
	ops := []Op{Count, Mean, Min, Max}
	stats := make([]string, len(ops))
	for i, op := range ops {
		stats[i] = op.String()
	}

	cols := []*series.Series{series.NewText("statistic", stats, t.mem)}
	for _, name := range t.order {
		if !t.columns[name].Kind().Numeric() {
			continue
		}
		values := make([]float64, len(ops))
		for i, op := range ops {
			v, err := t.Aggregate(name, op)
			if err != nil {
				values[i] = math.NaN()
				continue
			}
			values[i] = v.Float()
		}
		cols = append(cols, series.NewFloat(name, values, t.mem))
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
