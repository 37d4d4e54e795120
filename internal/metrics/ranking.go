package metrics

import (
	"courtside/internal/table"
)

// RankOptions configures entity ranking.
type RankOptions struct {
	Metric    string
	Ascending bool
	EntityCol string
	// MinGamesCol and MinGames together filter out entities below a sample
	// threshold before ranking. MinGamesCol must exist when both are set.
	MinGamesCol string
	MinGames    *float64
}

// RankEntities sorts entities by a metric and assigns a dense rank: tied
// metric values share a rank and the next distinct value takes the previous
// rank plus one, with no gaps. Rows with a missing metric are dropped, and
// an optional minimum-games filter is applied first; the rank is computed on
// the surviving set.
//
// Output column order is rank, entity, metric, then the remaining original
// columns in their original order.
func RankEntities(t *table.Table, opts RankOptions) (*table.Table, error) {
	required := []string{opts.EntityCol, opts.Metric}
	if opts.MinGamesCol != "" && opts.MinGames != nil {
		required = append(required, opts.MinGamesCol)
	}
	if err := t.RequireColumns(required...); err != nil {
		return nil, err
	}

	ranked := t.Clone()
	if opts.MinGamesCol != "" && opts.MinGames != nil {
		ranked = ranked.Filter(func(row int) bool {
			v, ok := ranked.Value(row, opts.MinGamesCol).Float64()
			return ok && v >= *opts.MinGames
		})
	}
	ranked = ranked.Filter(func(row int) bool {
		_, ok := ranked.Value(row, opts.Metric).Float64()
		return ok
	})

	mi := ranked.ColumnIndex(opts.Metric)
	ranked.SortStable(func(i, j int) bool {
		a, _ := ranked.At(i, mi).Float64()
		b, _ := ranked.At(j, mi).Float64()
		if opts.Ascending {
			return a < b
		}
		return a > b
	})

	ranks := make([]table.Value, ranked.NumRows())
	rank := 0
	var prev float64
	for i := 0; i < ranked.NumRows(); i++ {
		v, _ := ranked.At(i, mi).Float64()
		if i == 0 || v != prev {
			rank++
			prev = v
		}
		ranks[i] = table.Int(rank)
	}
	if err := ranked.AddColumn("rank", ranks); err != nil {
		return nil, err
	}

	cols := []string{"rank", opts.EntityCol, opts.Metric}
	for _, c := range t.Columns() {
		if c != opts.EntityCol && c != opts.Metric {
			cols = append(cols, c)
		}
	}
	return ranked.Select(cols...)
}
