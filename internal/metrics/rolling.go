package metrics

import (
	"fmt"

	"courtside/internal/table"
)

// ComputeRollingStats adds a trailing moving average per requested statistic,
// computed independently per entity over its chronological slice.
//
// For each entity and statistic, the value at a row is the arithmetic mean of
// up to window most recent observations including the current row. A value is
// only emitted once at least minPeriods rows have accumulated for that
// entity; earlier rows hold missing. Windows are positional and never cross
// entity boundaries.
//
// One column named {stat}_rolling_{window} is added per statistic. The input
// table is not mutated.
func ComputeRollingStats(t *table.Table, statCols []string, window int, entityCol, dateCol string, minPeriods int) (*table.Table, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	required := append([]string{entityCol, dateCol}, statCols...)
	if err := t.RequireColumns(required...); err != nil {
		return nil, err
	}

	prepared, err := table.SortChrono(t, entityCol, dateCol)
	if err != nil {
		return nil, err
	}

	parts := table.EntityPartitions(prepared, entityCol)
	for _, stat := range statCols {
		col := prepared.Column(stat)
		rolled := make([]table.Value, len(col))
		for _, p := range parts {
			for i := p[0]; i < p[1]; i++ {
				seen := i - p[0] + 1
				if seen < minPeriods {
					rolled[i] = table.Missing
					continue
				}
				start := i - window + 1
				if start < p[0] {
					start = p[0]
				}
				rolled[i] = table.Mean(col[start : i+1])
			}
		}
		name := fmt.Sprintf("%s_rolling_%d", stat, window)
		if err := prepared.AddColumn(name, rolled); err != nil {
			return nil, err
		}
	}
	return prepared, nil
}
