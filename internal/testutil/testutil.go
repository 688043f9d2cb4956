// Package testutil provides common testing utilities shared by the tabular
// packages: allocator setup, the sample data sets used throughout the tests,
// and table assertions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample data sets, mirroring the files the CLI and examples work with.
const (
	WeatherCSV = `day,temp,condition
Monday,12,Sunny
Tuesday,14,Rain
Wednesday,15,Rain
Thursday,14,Cloudy
Friday,21,Sunny
Saturday,22,Sunny
Sunday,24,Sunny
`

	StatesCSV = `state,x,y
Alabama,139,-77
Ohio,10,20
New York,236,104
`

	SquirrelCSV = `Unique Squirrel ID,Primary Fur Color,Age
37F-PM-1014-03,Gray,Adult
21B-AM-1019-04,Black,Juvenile
11B-PM-1014-08,Gray,Adult
32E-PM-1017-14,Cinnamon,Adult
13E-AM-1017-05,Black,Adult
`

	NatoCSV = `letter,code
A,Alfa
B,Bravo
C,Charlie
D,Delta
E,Echo
O,Oscar
`
)

// TestMemoryContext provides memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for tests.
// Returns a TestMemoryContext that should be released with defer.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{Allocator: memory.NewGoAllocator()}
}

// SetupCheckedMemoryTest creates a checked allocator whose Release asserts
// that every Arrow buffer allocated through it was released.
func SetupCheckedMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	checked := memory.NewCheckedAllocator(memory.NewGoAllocator())

	return &TestMemoryContext{
		Allocator: checked,
		cleanup: func() {
			checked.AssertSize(tb, 0)
		},
	}
}

// CreateScoresTable builds the students/scores table used across tests:
// students ["Amy", "James", "Angela"], scores [70, 56, 89].
func CreateScoresTable(tb testing.TB, allocator memory.Allocator) *table.Table {
	tb.Helper()

	tbl, err := table.New(allocator,
		series.NewText("students", []string{"Amy", "James", "Angela"}, allocator),
		series.NewInt("scores", []int64{70, 56, 89}, allocator),
	)
	require.NoError(tb, err)
	return tbl
}

// CreateStatesTable builds a state/x/y table matching StatesCSV.
func CreateStatesTable(tb testing.TB, allocator memory.Allocator) *table.Table {
	tb.Helper()

	tbl, err := table.New(allocator,
		series.NewText("state", []string{"Alabama", "Ohio", "New York"}, allocator),
		series.NewInt("x", []int64{139, 10, 236}, allocator),
		series.NewInt("y", []int64{-77, 20, 104}, allocator),
	)
	require.NoError(tb, err)
	return tbl
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// AssertTableEqual compares column names, kinds and every cell.
func AssertTableEqual(tb testing.TB, expected, actual *table.Table) {
	tb.Helper()

	require.NotNil(tb, expected, "expected table should not be nil")
	require.NotNil(tb, actual, "actual table should not be nil")

	assert.Equal(tb, expected.Columns(), actual.Columns(), "table columns should match")
	assert.Equal(tb, expected.Len(), actual.Len(), "table lengths should match")

	for _, name := range expected.Columns() {
		expectedCol, err := expected.Column(name)
		require.NoError(tb, err)
		actualCol, err := actual.Column(name)
		require.NoError(tb, err, "actual column %s should exist", name)

		assert.Equal(tb, expectedCol.Kind(), actualCol.Kind(), "column %s kind should match", name)
		assert.Equal(tb, expectedCol.Slice(), actualCol.Slice(), "column %s data should match", name)
	}
}

// AssertTableHasColumns verifies that a table has exactly the expected columns.
func AssertTableHasColumns(tb testing.TB, tbl *table.Table, expectedColumns []string) {
	tb.Helper()

	require.NotNil(tb, tbl, "table should not be nil")
	assert.Equal(tb, expectedColumns, tbl.Columns())
}
