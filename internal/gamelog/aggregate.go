package gamelog

import (
	"courtside/internal/table"
)

// KPISummary holds the top-level indicator values for a filtered game log.
// Zero values stand in when the log is empty.
type KPISummary struct {
	PPG            float64 `json:"ppg"`
	AstProxy       float64 `json:"ast_proxy"`
	RebProxy       float64 `json:"reb_proxy"`
	NetRatingProxy float64 `json:"net_rating_proxy"`
}

// SummarizeKPIs computes unweighted means of the key statistics across all
// rows of a team game log.
func SummarizeKPIs(log *table.Table) KPISummary {
	if log.NumRows() == 0 {
		return KPISummary{}
	}
	at := func(col string) float64 {
		f, _ := table.Mean(log.Column(col)).Float64()
		return f
	}
	return KPISummary{
		PPG:            at(ColPoints),
		AstProxy:       at(ColAstProxy),
		RebProxy:       at(ColRebProxy),
		NetRatingProxy: at(ColNetRatingProxy),
	}
}

// aggregated metric columns emitted by the groupings below.
var aggMetrics = []struct {
	out string
	src string
}{
	{"ppg", ColPoints},
	{"ast_proxy", ColAstProxy},
	{"reb_proxy", ColRebProxy},
	{"net_rating_proxy", ColNetRatingProxy},
}

// TrendByDate aggregates a team game log by date, taking the unweighted mean
// of each metric across the rows of that date, ordered date ascending.
func TrendByDate(log *table.Table) *table.Table {
	return groupMeans(log, ColDate, "date", false)
}

// TeamRanking aggregates a team game log by team with per-team metric means
// and a games-played count, ordered by ppg descending. The result feeds
// metrics.RankEntities for dense ranking and threshold filtering.
func TeamRanking(log *table.Table) *table.Table {
	out := groupMeans(log, ColTeam, "team", true)
	pi := out.ColumnIndex("ppg")
	out.SortStable(func(i, j int) bool {
		a, _ := out.At(i, pi).Float64()
		b, _ := out.At(j, pi).Float64()
		return a > b
	})
	return out
}

// groupMeans groups log rows by the key column, preserving the log's order of
// first appearance, and averages each metric within the group. withCount adds
// a "games" column holding the group size.
func groupMeans(log *table.Table, keyCol, outKey string, withCount bool) *table.Table {
	cols := []string{outKey}
	if withCount {
		cols = append(cols, "games")
	}
	for _, m := range aggMetrics {
		cols = append(cols, m.out)
	}
	out := table.New(cols...)
	if !log.HasColumn(keyCol) {
		return out
	}

	var keys []table.Value
	groups := make(map[string][]int)
	for i := 0; i < log.NumRows(); i++ {
		k := log.Value(i, keyCol)
		id := k.String()
		if _, ok := groups[id]; !ok {
			keys = append(keys, k)
		}
		groups[id] = append(groups[id], i)
	}

	for _, k := range keys {
		rows := groups[k.String()]
		rec := []table.Value{k}
		if withCount {
			rec = append(rec, table.Int(len(rows)))
		}
		for _, m := range aggMetrics {
			vals := make([]table.Value, len(rows))
			for j, r := range rows {
				vals[j] = log.Value(r, m.src)
			}
			rec = append(rec, table.Mean(vals))
		}
		out.MustAppendRow(rec...)
	}
	return out
}
