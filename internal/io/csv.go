package io

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/validation"
)

// Read reads CSV data and returns a Table. The first record is the header.
// Rows wider or narrower than the header fail with a FormatError, input
// without a header fails with an EmptyInputError, and a failing underlying
// reader surfaces as an IOError.
func (r *CSVReader) Read() (*table.Table, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = delimiter(r.options)
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, classifyReadError(err)
	}

	if len(records) == 0 {
		return nil, errors.NewEmptyInputError("Load")
	}

	headers := records[0]
	dataRows := records[1:]

	if r.options.DropIndex && len(headers) > 1 && headers[0] == "" {
		headers = headers[1:]
		for i, row := range dataRows {
			dataRows[i] = row[1:]
		}
	}

	if err := validation.ValidateUniqueNames(headers, "Load"); err != nil {
		return nil, err
	}

	// Transpose data to work with columns
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			columns[i][j] = row[i]
		}
	}

	seriesList := make([]*series.Series, 0, len(headers))
	for i, header := range headers {
		seriesList = append(seriesList, r.createSeriesFromStrings(header, columns[i]))
	}

	return table.New(r.mem, seriesList...)
}

// classifyReadError maps encoding/csv failures onto the error taxonomy.
func classifyReadError(err error) error {
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		msg := fmt.Sprintf("line %d: %v", parseErr.Line, parseErr.Err)
		if stderrors.Is(parseErr.Err, csv.ErrFieldCount) {
			msg = fmt.Sprintf("line %d: row width does not match header", parseErr.Line)
		}
		return &errors.TableError{Kind: errors.KindFormat, Op: "Load", Message: msg, Cause: err}
	}
	return &errors.TableError{Kind: errors.KindIO, Op: "Load", Message: "reading CSV", Cause: err}
}

func delimiter(options CSVOptions) rune {
	if options.Delimiter == 0 {
		return ','
	}
	return options.Delimiter
}

// createSeriesFromStrings creates a series from string data, inferring the appropriate type
func (r *CSVReader) createSeriesFromStrings(name string, data []string) *series.Series {
	switch inferDataType(data) {
	case series.IntColumn:
		intData := make([]int64, len(data))
		for i, value := range data {
			intData[i], _ = strconv.ParseInt(value, 10, 64)
		}
		return series.NewInt(name, intData, r.mem)
	case series.FloatColumn:
		floatData := make([]float64, len(data))
		for i, value := range data {
			floatData[i], _ = strconv.ParseFloat(value, 64)
		}
		return series.NewFloat(name, floatData, r.mem)
	default:
		return series.NewText(name, data, r.mem)
	}
}

// inferDataType picks the narrowest kind every value parses as. An empty
// cell parses as neither number, and a column without rows stays text.
func inferDataType(data []string) series.Kind {
	if len(data) == 0 {
		return series.TextColumn
	}

	canBeInt := true
	canBeFloat := true

	for _, value := range data {
		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}
		if !canBeFloat {
			return series.TextColumn
		}
	}

	if canBeInt {
		return series.IntColumn
	}
	return series.FloatColumn
}

// Write writes the Table to CSV format, header first.
func (w *CSVWriter) Write(t *table.Table) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = delimiter(w.options)

	names := t.Columns()
	cols := make([]*series.Series, len(names))
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	offset := 0
	if w.options.WriteIndex {
		offset = 1
	}

	header := make([]string, 0, len(names)+offset)
	if w.options.WriteIndex {
		header = append(header, "")
	}
	header = append(header, names...)
	if err := csvWriter.Write(header); err != nil {
		return writeError("writing header", err)
	}

	record := make([]string, len(names)+offset)
	for i := 0; i < t.Len(); i++ {
		if w.options.WriteIndex {
			record[0] = strconv.Itoa(i)
		}
		for j, col := range cols {
			record[offset+j] = col.Value(i).String()
		}
		if err := w.writeRecord(csvWriter, record); err != nil {
			return writeError(fmt.Sprintf("writing row %d", i), err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return writeError("flushing output", err)
	}
	return nil
}

// writeRecord writes one record. encoding/csv emits a lone empty field as a
// blank line, which readers skip, so that case is written quoted.
func (w *CSVWriter) writeRecord(csvWriter *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return csvWriter.Write(record)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w.writer, "\"\"\n")
	return err
}

func writeError(msg string, cause error) error {
	return &errors.TableError{Kind: errors.KindIO, Op: "Save", Message: msg, Cause: cause}
}
