package gamelog

import (
	"courtside/internal/table"
)

// Proxy coefficients for statistics the games endpoint does not expose at
// game level.
const (
	assistProxyPerPoint     = 0.60
	reboundProxyPerCombined = 0.22
)

// Team game log column names shared by the aggregations.
const (
	ColDate           = "date"
	ColTeam           = "team"
	ColTeamID         = "team_id"
	ColOpponent       = "opponent"
	ColPoints         = "points"
	ColOpponentPoints = "opponent_points"
	ColPointDiff      = "point_diff"
	ColNetRatingProxy = "net_rating_proxy"
	ColAstProxy       = "ast_proxy"
	ColRebProxy       = "reb_proxy"
)

// BuildTeamGameLog expands game records into exactly two rows per valid game,
// one per participating team, with derived proxy statistics:
//
//	point_diff       = points - opponent_points
//	net_rating_proxy = point_diff / ((points + opponent_points) / 2) * 100
//	ast_proxy        = 0.60 * points
//	reb_proxy        = 0.22 * (points + opponent_points)
//
// Games missing either score are dropped entirely. The result is ordered by
// (date, team) ascending.
func BuildTeamGameLog(games []GameRecord) *table.Table {
	t := table.New(
		ColDate, ColTeam, ColTeamID, ColOpponent,
		ColPoints, ColOpponentPoints, ColPointDiff,
		ColNetRatingProxy, ColAstProxy, ColRebProxy,
	)

	for _, g := range games {
		if g.HomeTeamScore == nil || g.VisitorTeamScore == nil {
			continue
		}
		date := table.Missing
		if d, ok := table.ParseDate(g.Date); ok {
			date = table.Time(d)
		}
		appendTeamRow(t, date, g.HomeTeam, g.VisitorTeam, *g.HomeTeamScore, *g.VisitorTeamScore)
		appendTeamRow(t, date, g.VisitorTeam, g.HomeTeam, *g.VisitorTeamScore, *g.HomeTeamScore)
	}

	di, ti := t.ColumnIndex(ColDate), t.ColumnIndex(ColTeam)
	t.SortStable(func(i, j int) bool {
		a, okA := t.At(i, di).Date()
		b, okB := t.At(j, di).Date()
		if okA != okB {
			return okA
		}
		if okA && !a.Equal(b) {
			return a.Before(b)
		}
		sa, _ := t.At(i, ti).Str()
		sb, _ := t.At(j, ti).Str()
		return sa < sb
	})
	return t
}

func appendTeamRow(t *table.Table, date table.Value, team, opponent Team, points, oppPoints int) {
	combined := points + oppPoints
	diff := table.Int(points - oppPoints)

	// Half the combined score stands in for possessions; a 0-0 game would
	// divide by zero and becomes missing instead.
	possessions := table.Float(float64(combined) / 2)
	netRating := diff.Div(possessions).Mul(table.Float(100))

	t.MustAppendRow(
		date,
		table.String(team.FullName),
		table.Int(team.ID),
		table.String(opponent.FullName),
		table.Int(points),
		table.Int(oppPoints),
		diff,
		netRating,
		table.Float(float64(points)*assistProxyPerPoint),
		table.Float(float64(combined)*reboundProxyPerCombined),
	)
}
