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

func furTable(t *testing.T, mem memory.Allocator) *table.Table {
	t.Helper()
	tbl, err := table.New(mem,
		series.NewText("Primary Fur Color", []string{"Black", "Gray", "Black"}, mem),
		series.NewInt("id", []int64{1, 2, 3}, mem),
	)
	require.NoError(t, err)
	return tbl
}

func TestFilter(t *testing.T) {
	mem := testutil.SetupCheckedMemoryTest(t)
	defer mem.Release()
	tbl := furTable(t, mem.Allocator)
	defer tbl.Release()

	t.Run("fur colour equals Black", func(t *testing.T) {
		black := tbl.Filter(table.Eq("Primary Fur Color", "Black"))
		defer black.Release()

		assert.Equal(t, 2, black.Len())
		assert.Equal(t, tbl.Columns(), black.Columns())
		ids, err := black.Column("id")
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, ids.Slice(), "original order kept")
		assert.Equal(t, 3, tbl.Len(), "input not mutated")
	})

	t.Run("no match yields empty table with same columns", func(t *testing.T) {
		none := tbl.Filter(table.Eq("Primary Fur Color", "Cinnamon"))
		defer none.Release()

		assert.Equal(t, 0, none.Len())
		assert.Equal(t, tbl.Columns(), none.Columns())
	})

	t.Run("exact match is case-sensitive", func(t *testing.T) {
		lower := tbl.Filter(table.Eq("Primary Fur Color", "black"))
		defer lower.Release()
		assert.Equal(t, 0, lower.Len())

		folded := tbl.Filter(table.EqFold("Primary Fur Color", "black"))
		defer folded.Release()
		assert.Equal(t, 2, folded.Len())
	})

	t.Run("combinators", func(t *testing.T) {
		p := table.And(table.Eq("Primary Fur Color", "Black"), table.Not(table.Eq("id", 1)))
		res := tbl.Filter(p)
		defer res.Release()
		assert.Equal(t, 1, res.Len())

		either := tbl.Filter(table.Or(table.Eq("id", 1), table.Eq("id", 2)))
		defer either.Release()
		assert.Equal(t, 2, either.Len())
	})

	t.Run("FilterWhere checks columns", func(t *testing.T) {
		_, err := tbl.FilterWhere(table.Eq("colour", "Black"), "colour")
		assert.ErrorIs(t, err, tberrors.ErrUnknownColumn)
	})
}

func TestFilterProperties(t *testing.T) {
	mem := memory.NewGoAllocator()
	values := []int64{5, -3, 8, 8, 0, 12, -7, 3, 8, 1}
	tbl, err := table.New(mem, series.NewInt("v", values, mem))
	require.NoError(t, err)
	defer tbl.Release()

	preds := map[string]table.Predicate{
		"positive": func(r table.Row) bool { v, _ := r.Get("v"); return v.Int() > 0 },
		"even":     func(r table.Row) bool { v, _ := r.Get("v"); return v.Int()%2 == 0 },
		"none":     func(table.Row) bool { return false },
		"all":      func(table.Row) bool { return true },
	}

	for name, p := range preds {
		t.Run(name, func(t *testing.T) {
			res := tbl.Filter(p)
			defer res.Release()

			assert.LessOrEqual(t, res.Len(), tbl.Len())

			var expected []int64
			for _, v := range values {
				if p(mustRow(t, v)) {
					expected = append(expected, v)
				}
			}
			for _, r := range res.Rows() {
				assert.True(t, p(r))
			}
			col, err := res.Column("v")
			require.NoError(t, err)
			got, _ := col.Ints()
			assert.Equal(t, len(expected), len(got))
			for i := range expected {
				assert.Equal(t, expected[i], got[i])
			}
		})
	}
}

func mustRow(t *testing.T, v int64) table.Row {
	t.Helper()
	tbl, err := table.New(nil, series.NewInt("v", []int64{v}, nil))
	require.NoError(t, err)
	r, ok := tbl.Row(0)
	require.True(t, ok)
	return r
}

func TestAggregate(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	tbl := testutil.CreateScoresTable(t, mem.Allocator)
	defer tbl.Release()

	t.Run("mean", func(t *testing.T) {
		v, err := tbl.Aggregate("scores", table.Mean)
		require.NoError(t, err)
		assert.Equal(t, series.FloatColumn, v.Kind())
		assert.InDelta(t, 71.6666666, v.Float(), 1e-6)
	})

	t.Run("max", func(t *testing.T) {
		v, err := tbl.Aggregate("scores", table.Max)
		require.NoError(t, err)
		assert.Equal(t, series.Int(89), v)
	})

	t.Run("min", func(t *testing.T) {
		v, err := tbl.Aggregate("scores", table.Min)
		require.NoError(t, err)
		assert.Equal(t, series.Int(56), v)
	})

	t.Run("count works on text", func(t *testing.T) {
		v, err := tbl.Aggregate("students", table.Count)
		require.NoError(t, err)
		assert.Equal(t, int64(3), v.Int())
	})

	t.Run("numeric op on text", func(t *testing.T) {
		for _, op := range []table.Op{table.Mean, table.Max, table.Min} {
			_, err := tbl.Aggregate("students", op)
			assert.ErrorIs(t, err, tberrors.ErrTypeUnsupported, op.String())
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := tbl.Aggregate("grade", table.Mean)
		assert.ErrorIs(t, err, tberrors.ErrUnknownColumn)
	})
}

func TestAggregateBounds(t *testing.T) {
	mem := memory.NewGoAllocator()
	values := []float64{3.5, -1.25, 9, 9, 0, 2.75}
	tbl, err := table.New(mem, series.NewFloat("y", values, mem))
	require.NoError(t, err)
	defer tbl.Release()

	maxV, err := tbl.Aggregate("y", table.Max)
	require.NoError(t, err)
	minV, err := tbl.Aggregate("y", table.Min)
	require.NoError(t, err)

	for _, v := range values {
		assert.GreaterOrEqual(t, maxV.Float(), v)
		assert.LessOrEqual(t, minV.Float(), v)
	}
}

func TestAggregateEdgeCases(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("empty column", func(t *testing.T) {
		tbl, err := table.New(mem, series.NewInt("x", []int64{}, mem))
		require.NoError(t, err)
		defer tbl.Release()

		_, err = tbl.Aggregate("x", table.Mean)
		assert.ErrorIs(t, err, tberrors.ErrEmptyInput)

		v, err := tbl.Aggregate("x", table.Count)
		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Int())
	})

	t.Run("NaN never wins", func(t *testing.T) {
		tbl, err := table.New(mem, series.NewFloat("x", []float64{math.NaN(), 2, 7}, mem))
		require.NoError(t, err)
		defer tbl.Release()

		v, err := tbl.Aggregate("x", table.Max)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, v.Float(), 1e-9)
	})

	t.Run("ties resolve to first occurrence", func(t *testing.T) {
		tbl, err := table.New(mem,
			series.NewText("day", []string{"Mon", "Tue", "Wed"}, mem),
			series.NewInt("temp", []int64{24, 10, 24}, mem),
		)
		require.NoError(t, err)
		defer tbl.Release()

		hottest, err := tbl.WhereMax("temp")
		require.NoError(t, err)
		defer hottest.Release()
		assert.Equal(t, 2, hottest.Len())
		first, _ := hottest.Row(0)
		day, _ := first.Get("day")
		assert.Equal(t, "Mon", day.Text())

		coldest, err := tbl.WhereMin("temp")
		require.NoError(t, err)
		defer coldest.Release()
		assert.Equal(t, 1, coldest.Len())
	})
}

func TestParseOp(t *testing.T) {
	for name, want := range map[string]table.Op{
		"mean": table.Mean, "MAX": table.Max, " min ": table.Min, "count": table.Count, "avg": table.Mean,
	} {
		got, err := table.ParseOp(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := table.ParseOp("median")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	tbl := testutil.CreateStatesTable(t, mem.Allocator)
	defer tbl.Release()

	stats, err := tbl.Describe()
	require.NoError(t, err)
	defer stats.Release()

	assert.Equal(t, []string{"statistic", "x", "y"}, stats.Columns())
	row, found, err := stats.RowLookup("statistic", "max")
	require.NoError(t, err)
	require.True(t, found)
	x, _ := row.Get("x")
	assert.InDelta(t, 236.0, x.Float(), 1e-9)
}
