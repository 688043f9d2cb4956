package io

import (
	"bufio"
	stderrors "errors"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/table"
)

// LoadFile opens path and reads it as CSV. Open and read failures are
// IOErrors; the file is closed on every path.
func LoadFile(path string, options CSVOptions, mem memory.Allocator) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("Load", path, err)
	}
	defer f.Close()

	var reader DataReader = NewCSVReader(bufio.NewReader(f), options, mem)
	t, err := reader.Read()
	if err != nil {
		return nil, withPath(err, path)
	}

	slog.Debug("loaded table", "path", path, "rows", t.Len(), "columns", t.Width())
	return t, nil
}

// SaveFile writes t to path as CSV, creating or truncating the file.
// Failures, including one reported by Close, are returned as IOErrors
// and are not retried.
func SaveFile(path string, t *table.Table, options CSVOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("Save", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIOError("Save", path, cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	var writer DataWriter = NewCSVWriter(buf, options)
	if err := writer.Write(t); err != nil {
		return withPath(err, path)
	}
	if err := buf.Flush(); err != nil {
		return errors.NewIOError("Save", path, err)
	}

	slog.Debug("saved table", "path", path, "rows", t.Len(), "columns", t.Width(),
		"index", options.WriteIndex)
	return nil
}

// withPath prefixes a TableError's message with the file it concerns.
func withPath(err error, path string) error {
	var tableErr *errors.TableError
	if !stderrors.As(err, &tableErr) {
		return err
	}
	annotated := *tableErr
	annotated.Message = path + ": " + tableErr.Message
	return &annotated
}
