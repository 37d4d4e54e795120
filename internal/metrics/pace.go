package metrics

import (
	"fmt"

	"courtside/internal/table"
)

// PaceOptions configures pace-adjusted scoring.
type PaceOptions struct {
	PointsCol      string
	PossessionsCol string
	// PaceCol is optional; when the column is absent the output falls back
	// to the raw per-100 value without pace normalization.
	PaceCol   string
	OutputCol string
	// LeagueAvgPace anchors the normalization when set. When nil, the mean
	// of the non-missing pace values in the table is used.
	LeagueAvgPace *float64
}

// DefaultPaceOptions returns the conventional column names used by the
// scoring engine.
func DefaultPaceOptions() PaceOptions {
	return PaceOptions{
		PointsCol:      "points",
		PossessionsCol: "possessions",
		PaceCol:        "pace",
		OutputCol:      "pace_adjusted_points_per_100",
	}
}

// ComputePaceAdjustedScoring derives a pace-normalized per-possession scoring
// indicator:
//
//	raw_per_100 = points / possessions * 100
//	output      = raw_per_100 * (pace_anchor / pace)
//
// Zero possessions or zero pace yield missing for the affected row rather
// than an error. Adds {points}_per_100 and the output column; the input is
// not mutated.
func ComputePaceAdjustedScoring(t *table.Table, opts PaceOptions) (*table.Table, error) {
	if err := t.RequireColumns(opts.PointsCol, opts.PossessionsCol); err != nil {
		return nil, err
	}

	result := t.Clone()
	points := result.Column(opts.PointsCol)
	possessions := result.Column(opts.PossessionsCol)

	per100 := make([]table.Value, len(points))
	for i := range points {
		per100[i] = points[i].Div(possessions[i]).Mul(table.Float(100))
	}
	per100Name := fmt.Sprintf("%s_per_100", opts.PointsCol)
	if err := result.AddColumn(per100Name, per100); err != nil {
		return nil, err
	}

	output := make([]table.Value, len(per100))
	if result.HasColumn(opts.PaceCol) {
		pace := result.Column(opts.PaceCol)
		anchor := table.Missing
		if opts.LeagueAvgPace != nil {
			anchor = table.Float(*opts.LeagueAvgPace)
		} else {
			anchor = table.Mean(pace)
		}
		for i := range per100 {
			output[i] = per100[i].Mul(anchor.Div(pace[i]))
		}
	} else {
		// No pace column: documented fallback to the raw per-100 value.
		copy(output, per100)
	}
	if err := result.AddColumn(opts.OutputCol, output); err != nil {
		return nil, err
	}
	return result, nil
}
