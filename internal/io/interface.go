// Package io reads and writes tables as delimited text.
//
// Key components:
//   - CSVReader/CSVWriter for streams, with per-column type inference
//   - LoadFile/SaveFile for paths, releasing file handles on every path
//   - CSVOptions for delimiter, comment and row-index handling
//
// Memory management: tables are backed by Apache Arrow buffers allocated
// from the allocator passed in and must be released with Table.Release.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/table"
)

// DataReader defines the interface for reading a table from a source
type DataReader interface {
	// Read reads data from the source and returns a Table
	Read() (*table.Table, error)
}

// DataWriter defines the interface for writing a table to a destination
type DataWriter interface {
	// Write writes the Table to the destination
	Write(t *table.Table) error
}

var (
	_ DataReader = (*CSVReader)(nil)
	_ DataWriter = (*CSVWriter)(nil)
)

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// WriteIndex prepends an unnamed 0..N-1 row-index column on write
	WriteIndex bool
	// DropIndex drops a leading unnamed column on read, the shape WriteIndex produces
	DropIndex bool
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:        ',',
		Comment:          0,
		SkipInitialSpace: false,
		WriteIndex:       true,
		DropIndex:        true,
	}
}

// CSVReader reads CSV data and converts it to Tables
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// CSVWriter writes Tables to CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}
