// Package tabular loads delimited text files into immutable, column-typed
// tables and answers projection, filtering, aggregation and key-lookup
// queries over them. This package is the public API; the implementation
// lives under internal/.
//
// A minimal session:
//
//	t, err := tabular.LoadFile("weather_data.csv")
//	if err != nil {
//		return err
//	}
//	defer t.Release()
//
//	hottest, err := t.Aggregate("temp", tabular.Max)
//	monday := t.Filter(tabular.Eq("day", "Monday"))
//	defer monday.Release()
package tabular

import (
	stdio "io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/table"
)

// Table is an immutable set of equal-length named columns.
type Table = table.Table

// Row is a read-only view of one record.
type Row = table.Row

// Predicate selects rows for Filter.
type Predicate = table.Predicate

// Mapping is a column name to Go slice representation of a table.
type Mapping = table.Mapping

// Series is a single named, typed column.
type Series = series.Series

// Value is a tagged scalar read from a cell or returned by Aggregate.
type Value = series.Value

// Kind is the storage kind of a column.
type Kind = series.Kind

// Op is an aggregation operator.
type Op = table.Op

// KeyIndex answers repeated key lookups over one column.
type KeyIndex = table.KeyIndex

// LookupOption configures RowLookup, Contains and Index.
type LookupOption = table.LookupOption

// CSVOptions controls the delimited reader and writer.
type CSVOptions = io.CSVOptions

// Error is the error type returned by every table operation.
type Error = errors.TableError

// ErrorKind classifies an Error.
type ErrorKind = errors.Kind

// Column kinds.
const (
	TextColumn  = series.TextColumn
	IntColumn   = series.IntColumn
	FloatColumn = series.FloatColumn
)

// Aggregation operators.
const (
	Mean  = table.Mean
	Max   = table.Max
	Min   = table.Min
	Count = table.Count
)

// Sentinels for errors.Is. Each matches every Error of that kind.
var (
	ErrFormat          = errors.ErrFormat
	ErrEmptyInput      = errors.ErrEmptyInput
	ErrUnknownColumn   = errors.ErrUnknownColumn
	ErrTypeUnsupported = errors.ErrTypeUnsupported
	ErrLengthMismatch  = errors.ErrLengthMismatch
	ErrIO              = errors.ErrIO
)

// Option configures Load and Save.
type Option func(*settings)

type settings struct {
	csv CSVOptions
	mem memory.Allocator
}

func newSettings(opts []Option) settings {
	s := settings{csv: io.DefaultCSVOptions(), mem: memory.DefaultAllocator}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithoutIndex makes Save omit the leading row-index column.
func WithoutIndex() Option {
	return func(s *settings) {
		s.csv.WriteIndex = false
	}
}

// KeepIndex makes Load keep a leading unnamed column instead of treating it
// as a saved row index.
func KeepIndex() Option {
	return func(s *settings) {
		s.csv.DropIndex = false
	}
}

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(s *settings) {
		s.csv.Delimiter = r
	}
}

// WithCSVOptions replaces the reader and writer options wholesale.
func WithCSVOptions(options CSVOptions) Option {
	return func(s *settings) {
		s.csv = options
	}
}

// WithAllocator sets the Arrow allocator used for loaded columns.
func WithAllocator(mem memory.Allocator) Option {
	return func(s *settings) {
		s.mem = mem
	}
}

// DefaultCSVOptions returns the reader and writer defaults.
func DefaultCSVOptions() CSVOptions {
	return io.DefaultCSVOptions()
}

// Load parses delimited text from r. The first record is the header.
func Load(r stdio.Reader, opts ...Option) (*Table, error) {
	s := newSettings(opts)
	return io.NewCSVReader(r, s.csv, s.mem).Read()
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string, opts ...Option) (*Table, error) {
	s := newSettings(opts)
	return io.LoadFile(path, s.csv, s.mem)
}

// Save writes t to w, header first, prepending a row-index column unless
// WithoutIndex is given.
func Save(w stdio.Writer, t *Table, opts ...Option) error {
	s := newSettings(opts)
	return io.NewCSVWriter(w, s.csv).Write(t)
}

// SaveFile writes t to path with Save. Write failures are returned as
// IOErrors and are not retried.
func SaveFile(path string, t *Table, opts ...Option) error {
	s := newSettings(opts)
	return io.SaveFile(path, t, s.csv)
}

// New builds a table from columns of equal length with unique names.
func New(cols ...*Series) (*Table, error) {
	return table.New(memory.DefaultAllocator, cols...)
}

// NewIntSeries builds an integer column.
func NewIntSeries(name string, values []int64) *Series {
	return series.NewInt(name, values, memory.DefaultAllocator)
}

// NewFloatSeries builds a float column.
func NewFloatSeries(name string, values []float64) *Series {
	return series.NewFloat(name, values, memory.DefaultAllocator)
}

// NewTextSeries builds a text column.
func NewTextSeries(name string, values []string) *Series {
	return series.NewText(name, values, memory.DefaultAllocator)
}

// FromMapping builds a table from in-memory columns. Columns named in order
// come first, the rest follow sorted by name.
func FromMapping(m Mapping, order ...string) (*Table, error) {
	return table.FromMapping(m, memory.DefaultAllocator, order...)
}

// ParseOp parses an operator name such as "mean" or "max".
func ParseOp(name string) (Op, error) {
	return table.ParseOp(name)
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Predicate {
	return table.Eq(column, value)
}

// EqFold is Eq with case-insensitive text comparison.
func EqFold(column string, value any) Predicate {
	return table.EqFold(column, value)
}

// And matches rows that every predicate matches.
func And(preds ...Predicate) Predicate {
	return table.And(preds...)
}

// Or matches rows that any predicate matches.
func Or(preds ...Predicate) Predicate {
	return table.Or(preds...)
}

// Not inverts pred.
func Not(pred Predicate) Predicate {
	return table.Not(pred)
}

// WithFoldCase sets whether lookups compare text case-insensitively.
// Lookups fold case by default.
func WithFoldCase(fold bool) LookupOption {
	return table.WithFoldCase(fold)
}
