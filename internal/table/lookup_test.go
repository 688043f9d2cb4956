package table_test

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	tberrors "github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLookup(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	tbl := testutil.CreateStatesTable(t, mem.Allocator)
	defer tbl.Release()

	t.Run("present key", func(t *testing.T) {
		row, found, err := tbl.RowLookup("state", "Ohio")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, map[string]any{"state": "Ohio", "x": int64(10), "y": int64(20)}, row.Map())
	})

	t.Run("case-normalised by default", func(t *testing.T) {
		row, found, err := tbl.RowLookup("state", "new york")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 2, row.Index())
	})

	t.Run("exact when folding disabled", func(t *testing.T) {
		_, found, err := tbl.RowLookup("state", "ohio", table.WithFoldCase(false))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("substring does not match", func(t *testing.T) {
		_, found, err := tbl.RowLookup("state", "New")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("absent key is not an error", func(t *testing.T) {
		row, found, err := tbl.RowLookup("state", "Atlantis")
		require.NoError(t, err)
		assert.False(t, found)
		assert.True(t, row.IsZero())
	})

	t.Run("numeric key", func(t *testing.T) {
		row, found, err := tbl.RowLookup("x", 236)
		require.NoError(t, err)
		require.True(t, found)
		state, _ := row.Get("state")
		assert.Equal(t, "New York", state.Text())
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := tbl.RowLookup("capital", "Columbus")
		assert.ErrorIs(t, err, tberrors.ErrUnknownColumn)
	})

	t.Run("unsupported key", func(t *testing.T) {
		_, _, err := tbl.RowLookup("state", []string{"Ohio"})
		assert.ErrorIs(t, err, tberrors.ErrTypeUnsupported)
	})

	t.Run("contains", func(t *testing.T) {
		ok, err := tbl.Contains("state", "alabama")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRowLookupFirstOccurrence(t *testing.T) {
	mem := memory.NewGoAllocator()
	tbl, err := table.New(mem,
		series.NewText("name", []string{"Amy", "amy", "Amy"}, mem),
		series.NewInt("score", []int64{1, 2, 3}, mem),
	)
	require.NoError(t, err)
	defer tbl.Release()

	row, found, err := tbl.RowLookup("name", "AMY")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, row.Index())
}

func TestKeyIndex(t *testing.T) {
	mem := memory.NewGoAllocator()
	tbl, err := table.New(mem,
		series.NewText("color", []string{"Gray", "Black", "gray", "Cinnamon", "Gray"}, mem),
	)
	require.NoError(t, err)
	defer tbl.Release()

	t.Run("folded", func(t *testing.T) {
		ix, err := tbl.Index("color")
		require.NoError(t, err)

		assert.Equal(t, "color", ix.Column())
		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, []int{0, 2, 4}, ix.Rows("GRAY"))
		assert.Equal(t, 3, ix.Count("gray"))
		assert.Equal(t, []series.Value{series.Text("Gray"), series.Text("Black"), series.Text("Cinnamon")}, ix.Keys())

		row, ok := ix.Lookup("black")
		require.True(t, ok)
		assert.Equal(t, 1, row.Index())

		_, ok = ix.Lookup("White")
		assert.False(t, ok)
		assert.Nil(t, ix.Rows("White"))
	})

	t.Run("exact", func(t *testing.T) {
		ix, err := tbl.Index("color", table.WithFoldCase(false))
		require.NoError(t, err)

		assert.Equal(t, 4, ix.Len())
		assert.Equal(t, 2, ix.Count("Gray"))
		assert.Equal(t, 1, ix.Count("gray"))
	})

	t.Run("agrees with RowLookup", func(t *testing.T) {
		ix, err := tbl.Index("color")
		require.NoError(t, err)
		for _, key := range []string{"Gray", "BLACK", "cinnamon", "White"} {
			want, wantOK, err := tbl.RowLookup("color", key)
			require.NoError(t, err)
			got, gotOK := ix.Lookup(key)
			assert.Equal(t, wantOK, gotOK, key)
			assert.Equal(t, want.Index(), got.Index(), key)
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := tbl.Index("fur")
		assert.ErrorIs(t, err, tberrors.ErrUnknownColumn)
	})
}

func TestKeyIndexNumeric(t *testing.T) {
	mem := memory.NewGoAllocator()
	tbl, err := table.New(mem, series.NewFloat("y", []float64{10, 20.5, 10}, mem))
	require.NoError(t, err)
	defer tbl.Release()

	ix, err := tbl.Index("y")
	require.NoError(t, err)

	assert.Equal(t, 2, ix.Count(10))
	assert.Equal(t, 1, ix.Count(20.5))
	assert.Equal(t, 0, ix.Count("10"))
}

func TestKeyIndexMatchesRowLookup(t *testing.T) {
	mem := memory.NewGoAllocator()

	tests := []struct {
		name string
		col  *series.Series
		keys []any
	}{
		{
			name: "unicode case folding",
			col:  series.NewText("name", []string{"ſtate", "ὈΔΥΣΣΕΎΣ", "Kelvin"}, mem),
			keys: []any{"STATE", "state", "ὀδυσσεύς", "ὀδυσσεύσ", "\u212Aelvin", "absent"},
		},
		{
			name: "signed zero",
			col:  series.NewFloat("y", []float64{math.Copysign(0, -1), 1.5}, mem),
			keys: []any{0, 0.0, math.Copysign(0, -1), 1.5, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.New(mem, tt.col)
			require.NoError(t, err)
			defer tbl.Release()

			ix, err := tbl.Index(tt.col.Name())
			require.NoError(t, err)

			for _, key := range tt.keys {
				want, wantOK, err := tbl.RowLookup(tt.col.Name(), key)
				require.NoError(t, err)
				got, gotOK := ix.Lookup(key)
				assert.Equal(t, wantOK, gotOK, "%v", key)
				assert.Equal(t, want.Index(), got.Index(), "%v", key)
			}

			found, _, err := tbl.RowLookup(tt.col.Name(), tt.keys[0])
			require.NoError(t, err)
			assert.False(t, found.IsZero(), "first key is present")
		})
	}
}
