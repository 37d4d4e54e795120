package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/table"
)

func TestComputePaceAdjustedScoring(t *testing.T) {
	t.Run("identity case", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions", "pace")
		tbl.MustAppendRow(table.String("LAL"), table.Float(100), table.Float(100), table.Float(100))

		league := 100.0
		opts := DefaultPaceOptions()
		opts.LeagueAvgPace = &league
		out, err := ComputePaceAdjustedScoring(tbl, opts)
		require.NoError(t, err)

		assert.Equal(t, 100.0, floatAt(t, out, 0, "points_per_100"))
		assert.Equal(t, 100.0, floatAt(t, out, 0, "pace_adjusted_points_per_100"))
	})

	t.Run("zero possessions yields missing", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions")
		tbl.MustAppendRow(table.String("LAL"), table.Float(100), table.Float(0))

		out, err := ComputePaceAdjustedScoring(tbl, DefaultPaceOptions())
		require.NoError(t, err)
		assert.True(t, out.Value(0, "points_per_100").IsMissing())
		assert.True(t, out.Value(0, "pace_adjusted_points_per_100").IsMissing())
	})

	t.Run("zero pace yields missing output, keeps per-100", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions", "pace")
		tbl.MustAppendRow(table.String("LAL"), table.Float(100), table.Float(100), table.Float(0))

		league := 100.0
		opts := DefaultPaceOptions()
		opts.LeagueAvgPace = &league
		out, err := ComputePaceAdjustedScoring(tbl, opts)
		require.NoError(t, err)
		assert.Equal(t, 100.0, floatAt(t, out, 0, "points_per_100"))
		assert.True(t, out.Value(0, "pace_adjusted_points_per_100").IsMissing())
	})

	t.Run("anchor defaults to table mean pace", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions", "pace")
		tbl.MustAppendRow(table.String("LAL"), table.Float(110), table.Float(100), table.Float(110))
		tbl.MustAppendRow(table.String("BOS"), table.Float(90), table.Float(100), table.Float(90))

		out, err := ComputePaceAdjustedScoring(tbl, DefaultPaceOptions())
		require.NoError(t, err)

		// Mean pace anchor is 100: fast team scaled down, slow team up.
		assert.Equal(t, 100.0, floatAt(t, out, 0, "pace_adjusted_points_per_100"))
		assert.Equal(t, 100.0, floatAt(t, out, 1, "pace_adjusted_points_per_100"))
	})

	t.Run("pace column absent falls back to per-100", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions")
		tbl.MustAppendRow(table.String("LAL"), table.Float(120), table.Float(96))

		out, err := ComputePaceAdjustedScoring(tbl, DefaultPaceOptions())
		require.NoError(t, err)
		assert.Equal(t, 125.0, floatAt(t, out, 0, "points_per_100"))
		assert.Equal(t, 125.0, floatAt(t, out, 0, "pace_adjusted_points_per_100"))
	})

	t.Run("required columns enforced", func(t *testing.T) {
		tbl := table.New("team")
		_, err := ComputePaceAdjustedScoring(tbl, DefaultPaceOptions())
		var schemaErr *table.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"points", "possessions"}, schemaErr.Missing)
	})

	t.Run("input not mutated", func(t *testing.T) {
		tbl := table.New("team", "points", "possessions")
		tbl.MustAppendRow(table.String("LAL"), table.Float(100), table.Float(100))
		_, err := ComputePaceAdjustedScoring(tbl, DefaultPaceOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"team", "points", "possessions"}, tbl.Columns())
	})
}
