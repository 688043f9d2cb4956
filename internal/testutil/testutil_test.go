package testutil_test

import (
	"os"
	"testing"

	"github.com/paveg/tabular/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCheckedMemoryTest(t *testing.T) {
	mem := testutil.SetupCheckedMemoryTest(t)
	defer mem.Release()

	tbl := testutil.CreateScoresTable(t, mem.Allocator)
	defer tbl.Release()

	assert.Equal(t, 3, tbl.Len())
}

func TestCreateStatesTable(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.CreateStatesTable(t, mem.Allocator)
	defer tbl.Release()

	testutil.AssertTableHasColumns(t, tbl, []string{"state", "x", "y"})
	testutil.AssertTableEqual(t, tbl, tbl)
}

func TestWriteFile(t *testing.T) {
	path := testutil.WriteFile(t, "weather.csv", testutil.WeatherCSV)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.WeatherCSV, string(data))
}
