package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/table"
)

func seriesTable(team string, values []float64) *table.Table {
	t := table.New("team", "date", "rating")
	for i, v := range values {
		t.MustAppendRow(
			table.String(team),
			table.String(fmt.Sprintf("2024-01-%02d", i+1)),
			table.Float(v),
		)
	}
	return t
}

func TestCalculateTrend(t *testing.T) {
	t.Run("recent versus prior windows", func(t *testing.T) {
		tbl := seriesTable("LAL", []float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 2})
		out, err := CalculateTrend(tbl, "rating", 5, "team", "date")
		require.NoError(t, err)
		require.Equal(t, 1, out.NumRows())

		assert.Equal(t, []string{
			"team", "rating_recent_5", "rating_prior_5",
			"rating_delta", "rating_delta_pct",
			"samples_recent", "samples_prior",
		}, out.Columns())

		assert.Equal(t, 2.0, floatAt(t, out, 0, "rating_recent_5"))
		assert.Equal(t, 1.0, floatAt(t, out, 0, "rating_prior_5"))
		assert.Equal(t, 1.0, floatAt(t, out, 0, "rating_delta"))
		assert.Equal(t, 100.0, floatAt(t, out, 0, "rating_delta_pct"))
		assert.Equal(t, 5.0, floatAt(t, out, 0, "samples_recent"))
		assert.Equal(t, 5.0, floatAt(t, out, 0, "samples_prior"))
	})

	t.Run("short series leaves prior empty", func(t *testing.T) {
		tbl := seriesTable("LAL", []float64{10, 20, 30})
		out, err := CalculateTrend(tbl, "rating", 5, "team", "date")
		require.NoError(t, err)

		assert.Equal(t, 20.0, floatAt(t, out, 0, "rating_recent_5"))
		assert.True(t, out.Value(0, "rating_prior_5").IsMissing())
		assert.True(t, out.Value(0, "rating_delta").IsMissing())
		assert.True(t, out.Value(0, "rating_delta_pct").IsMissing())
		assert.Equal(t, 3.0, floatAt(t, out, 0, "samples_recent"))
		assert.Equal(t, 0.0, floatAt(t, out, 0, "samples_prior"))
	})

	t.Run("prior window clamps short", func(t *testing.T) {
		// 7 observations, periods=5: recent takes the last 5, prior gets
		// only the 2 before them.
		tbl := seriesTable("LAL", []float64{10, 20, 3, 3, 3, 3, 3})
		out, err := CalculateTrend(tbl, "rating", 5, "team", "date")
		require.NoError(t, err)

		assert.Equal(t, 3.0, floatAt(t, out, 0, "rating_recent_5"))
		assert.Equal(t, 15.0, floatAt(t, out, 0, "rating_prior_5"))
		assert.Equal(t, -12.0, floatAt(t, out, 0, "rating_delta"))
		assert.Equal(t, -80.0, floatAt(t, out, 0, "rating_delta_pct"))
		assert.Equal(t, 2.0, floatAt(t, out, 0, "samples_prior"))
	})

	t.Run("missing observations dropped before slicing", func(t *testing.T) {
		tbl := table.New("team", "date", "rating")
		tbl.MustAppendRow(table.String("LAL"), table.String("2024-01-01"), table.Float(10))
		tbl.MustAppendRow(table.String("LAL"), table.String("2024-01-02"), table.Missing)
		tbl.MustAppendRow(table.String("LAL"), table.String("2024-01-03"), table.Float(20))

		out, err := CalculateTrend(tbl, "rating", 1, "team", "date")
		require.NoError(t, err)
		assert.Equal(t, 20.0, floatAt(t, out, 0, "rating_recent_1"))
		assert.Equal(t, 10.0, floatAt(t, out, 0, "rating_prior_1"))
	})

	t.Run("zero prior mean blocks delta_pct", func(t *testing.T) {
		tbl := seriesTable("LAL", []float64{0, 5})
		out, err := CalculateTrend(tbl, "rating", 1, "team", "date")
		require.NoError(t, err)
		assert.Equal(t, 5.0, floatAt(t, out, 0, "rating_delta"))
		assert.True(t, out.Value(0, "rating_delta_pct").IsMissing())
	})

	t.Run("one row per entity, first-seen order", func(t *testing.T) {
		tbl := table.New("team", "date", "rating")
		tbl.MustAppendRow(table.String("BOS"), table.String("2024-01-01"), table.Float(1))
		tbl.MustAppendRow(table.String("LAL"), table.String("2024-01-01"), table.Float(2))
		tbl.MustAppendRow(table.String("BOS"), table.String("2024-01-02"), table.Float(3))

		out, err := CalculateTrend(tbl, "rating", 2, "team", "date")
		require.NoError(t, err)
		require.Equal(t, 2, out.NumRows())
		first, _ := out.Value(0, "team").Str()
		second, _ := out.Value(1, "team").Str()
		assert.Equal(t, "BOS", first)
		assert.Equal(t, "LAL", second)
	})

	t.Run("missing stat column", func(t *testing.T) {
		tbl := table.New("team", "date")
		_, err := CalculateTrend(tbl, "rating", 5, "team", "date")
		var schemaErr *table.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"rating"}, schemaErr.Missing)
	})
}

func TestComputeOffDefTrendDeltas(t *testing.T) {
	buildTable := func() *table.Table {
		tbl := table.New("team", "date", "off_rating", "def_rating")
		for i := 0; i < 4; i++ {
			off := 100.0
			def := 100.0
			if i >= 2 {
				off = 110 // offense improves by 10
				def = 104 // defense worsens by 4
			}
			tbl.MustAppendRow(
				table.String("LAL"),
				table.String(fmt.Sprintf("2024-01-%02d", i+1)),
				table.Float(off),
				table.Float(def),
			)
		}
		return tbl
	}

	t.Run("net delta combines both sides", func(t *testing.T) {
		out, err := ComputeOffDefTrendDeltas(buildTable(), "off_rating", "def_rating", 2, "team", "date")
		require.NoError(t, err)
		require.Equal(t, 1, out.NumRows())

		assert.Equal(t, 10.0, floatAt(t, out, 0, "off_rating_delta"))
		assert.Equal(t, 4.0, floatAt(t, out, 0, "def_rating_delta"))
		assert.Equal(t, 6.0, floatAt(t, out, 0, "net_trend_delta"))
	})

	t.Run("outer join keeps one-sided entities", func(t *testing.T) {
		// BOS has off_rating but never a def_rating observation.
		tbl := table.New("team", "date", "off_rating", "def_rating")
		tbl.MustAppendRow(table.String("LAL"), table.String("2024-01-01"), table.Float(100), table.Float(90))
		tbl.MustAppendRow(table.String("BOS"), table.String("2024-01-01"), table.Float(105), table.Missing)

		out, err := ComputeOffDefTrendDeltas(tbl, "off_rating", "def_rating", 1, "team", "date")
		require.NoError(t, err)
		require.Equal(t, 2, out.NumRows())

		bosRow := -1
		for i := 0; i < out.NumRows(); i++ {
			if s, _ := out.Value(i, "team").Str(); s == "BOS" {
				bosRow = i
			}
		}
		require.GreaterOrEqual(t, bosRow, 0)
		assert.Equal(t, 105.0, floatAt(t, out, bosRow, "off_rating_recent_1"))
		assert.True(t, out.Value(bosRow, "def_rating_recent_1").IsMissing())
		assert.True(t, out.Value(bosRow, "net_trend_delta").IsMissing())
	})

	t.Run("duplicated shared column names survive the join", func(t *testing.T) {
		out, err := ComputeOffDefTrendDeltas(buildTable(), "off_rating", "def_rating", 2, "team", "date")
		require.NoError(t, err)
		cols := out.Columns()
		assert.Contains(t, cols, "samples_recent")
		assert.Contains(t, cols, "samples_recent_right")
	})
}
