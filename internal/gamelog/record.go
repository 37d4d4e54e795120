// Package gamelog turns raw game records into analysis-ready tables: a
// display table of results, a denormalized team game log with derived proxy
// statistics, and the aggregations built on top of it (KPI summary,
// trend-by-date, per-team ranking).
package gamelog

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"courtside/internal/table"
)

// Team identifies one participating team.
type Team struct {
	ID       int    `json:"id" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

// GameRecord is one game as delivered by the games API. Scores are pointers
// because unplayed or in-progress games carry no score; such games are
// dropped by the expander rather than retained as missing-value rows.
type GameRecord struct {
	Date             string `json:"date" validate:"required"`
	Season           int    `json:"season"`
	Status           string `json:"status"`
	HomeTeam         Team   `json:"home_team" validate:"required"`
	VisitorTeam      Team   `json:"visitor_team" validate:"required"`
	HomeTeamScore    *int   `json:"home_team_score"`
	VisitorTeamScore *int   `json:"visitor_team_score"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseGames decodes a JSON array of game records and validates each at the
// ingestion boundary. A record failing validation is an error; downstream
// code trusts the typed result.
func ParseGames(data []byte) ([]GameRecord, error) {
	var games []GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	for i, g := range games {
		if err := validate.Struct(g); err != nil {
			return nil, fmt.Errorf("game %d invalid: %w", i, err)
		}
	}
	return games, nil
}

// GamesTable converts game records to a display table sorted by date
// descending: date, season, status, home_team, home_score, visitor_team,
// visitor_score. Absent scores stay missing in this view.
func GamesTable(games []GameRecord) *table.Table {
	t := table.New("date", "season", "status", "home_team", "home_score", "visitor_team", "visitor_score")
	for _, g := range games {
		date := table.Missing
		if d, ok := table.ParseDate(g.Date); ok {
			date = table.Time(d)
		}
		t.MustAppendRow(
			date,
			table.Int(g.Season),
			table.String(g.Status),
			table.String(g.HomeTeam.FullName),
			scoreValue(g.HomeTeamScore),
			table.String(g.VisitorTeam.FullName),
			scoreValue(g.VisitorTeamScore),
		)
	}
	di := t.ColumnIndex("date")
	t.SortStable(func(i, j int) bool {
		a, okA := t.At(i, di).Date()
		b, okB := t.At(j, di).Date()
		if okA != okB {
			return okA
		}
		return okA && a.After(b)
	})
	return t
}

func scoreValue(score *int) table.Value {
	if score == nil {
		return table.Missing
	}
	return table.Int(*score)
}
