package metrics

import (
	"fmt"

	"courtside/internal/table"
)

// CalculateTrend compares, per entity, the mean of the most recent periods
// non-missing observations of statCol against the mean of the periods
// observations immediately preceding them.
//
// The prior window is the slice [len-2*periods, len-periods) of the entity's
// non-missing observations, clamped at zero: with fewer than 2*periods
// observations the prior window shrinks, possibly to empty. This asymmetry is
// deliberate; a short prior sample is accepted silently.
//
// The result holds one row per entity (first-seen order) with columns:
// entity, {stat}_recent_{periods}, {stat}_prior_{periods}, {stat}_delta,
// {stat}_delta_pct, samples_recent, samples_prior. Delta is missing unless
// both window means are present; delta_pct additionally requires a nonzero
// prior mean.
func CalculateTrend(t *table.Table, statCol string, periods int, entityCol, dateCol string) (*table.Table, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be positive, got %d", periods)
	}
	if err := t.RequireColumns(statCol, entityCol, dateCol); err != nil {
		return nil, err
	}

	prepared, err := table.SortChrono(t, entityCol, dateCol)
	if err != nil {
		return nil, err
	}

	out := table.New(
		entityCol,
		fmt.Sprintf("%s_recent_%d", statCol, periods),
		fmt.Sprintf("%s_prior_%d", statCol, periods),
		fmt.Sprintf("%s_delta", statCol),
		fmt.Sprintf("%s_delta_pct", statCol),
		"samples_recent",
		"samples_prior",
	)

	stat := prepared.Column(statCol)
	for _, p := range table.EntityPartitions(prepared, entityCol) {
		var series []table.Value
		for i := p[0]; i < p[1]; i++ {
			if _, ok := stat[i].Float64(); ok {
				series = append(series, stat[i])
			}
		}

		n := len(series)
		recentStart := n - periods
		if recentStart < 0 {
			recentStart = 0
		}
		priorStart := n - 2*periods
		if priorStart < 0 {
			priorStart = 0
		}
		recent := series[recentStart:]
		prior := series[priorStart:recentStart]

		recentMean := table.Mean(recent)
		priorMean := table.Mean(prior)
		delta := recentMean.Sub(priorMean)
		deltaPct := delta.Div(priorMean).Mul(table.Float(100))

		out.MustAppendRow(
			prepared.At(p[0], prepared.ColumnIndex(entityCol)),
			recentMean,
			priorMean,
			delta,
			deltaPct,
			table.Int(len(recent)),
			table.Int(len(prior)),
		)
	}
	return out, nil
}

// ComputeOffDefTrendDeltas runs CalculateTrend independently for an offensive
// and a defensive statistic, outer-joins the two per-entity results on the
// entity column, and adds net_trend_delta = offensive delta - defensive
// delta (missing when either side is missing).
func ComputeOffDefTrendDeltas(t *table.Table, offensiveCol, defensiveCol string, periods int, entityCol, dateCol string) (*table.Table, error) {
	offense, err := CalculateTrend(t, offensiveCol, periods, entityCol, dateCol)
	if err != nil {
		return nil, err
	}
	defense, err := CalculateTrend(t, defensiveCol, periods, entityCol, dateCol)
	if err != nil {
		return nil, err
	}

	merged := outerJoin(offense, defense, entityCol)

	offDelta := merged.Column(fmt.Sprintf("%s_delta", offensiveCol))
	defDelta := merged.Column(fmt.Sprintf("%s_delta", defensiveCol))
	net := make([]table.Value, len(offDelta))
	for i := range net {
		net[i] = offDelta[i].Sub(defDelta[i])
	}
	if err := merged.AddColumn("net_trend_delta", net); err != nil {
		return nil, err
	}
	return merged, nil
}

// outerJoin merges two per-entity tables on the key column. Left rows come
// first in their original order, then right-only entities in their original
// order; a side's columns hold missing where the entity is absent from it.
// Column name collisions beyond the key keep left's values and suffix
// right's.
func outerJoin(left, right *table.Table, keyCol string) *table.Table {
	leftCols := left.Columns()
	cols := append([]string(nil), leftCols...)
	var rightCols []string
	for _, c := range right.Columns() {
		if c == keyCol {
			continue
		}
		name := c
		if left.HasColumn(name) {
			name = name + "_right"
		}
		rightCols = append(rightCols, c)
		cols = append(cols, name)
	}

	out := table.New(cols...)

	rightRows := make(map[string]int, right.NumRows())
	for i := 0; i < right.NumRows(); i++ {
		rightRows[right.Value(i, keyCol).String()] = i
	}
	leftKeys := make(map[string]bool, left.NumRows())

	for i := 0; i < left.NumRows(); i++ {
		key := left.Value(i, keyCol).String()
		leftKeys[key] = true
		row := left.Row(i)
		if j, ok := rightRows[key]; ok {
			for _, c := range rightCols {
				row = append(row, right.Value(j, c))
			}
		} else {
			for range rightCols {
				row = append(row, table.Missing)
			}
		}
		out.MustAppendRow(row...)
	}

	for j := 0; j < right.NumRows(); j++ {
		key := right.Value(j, keyCol).String()
		if leftKeys[key] {
			continue
		}
		row := make([]table.Value, len(leftCols))
		row[left.ColumnIndex(keyCol)] = right.Value(j, keyCol)
		for _, c := range rightCols {
			row = append(row, right.Value(j, c))
		}
		out.MustAppendRow(row...)
	}
	return out
}
