package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/config"
	"courtside/internal/gamelog"
	"courtside/internal/nba"
)

type stubGamesService struct {
	games []gamelog.GameRecord
	err   error
}

func (s *stubGamesService) Games(ctx context.Context, start, end time.Time, teamIDs []int) ([]gamelog.GameRecord, error) {
	return s.games, s.err
}

func (s *stubGamesService) Teams(ctx context.Context) ([]nba.TeamInfo, error) {
	return []nba.TeamInfo{{ID: 14, FullName: "Los Angeles Lakers"}}, nil
}

func intPtr(i int) *int { return &i }

func testRouter(service GamesService) http.Handler {
	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = false
	return NewRouter(&cfg, service, slog.Default(), nil)
}

func sampleService() *stubGamesService {
	return &stubGamesService{games: []gamelog.GameRecord{
		{
			Date:             "2024-01-02",
			Season:           2023,
			Status:           "Final",
			HomeTeam:         gamelog.Team{ID: 14, FullName: "Los Angeles Lakers"},
			VisitorTeam:      gamelog.Team{ID: 2, FullName: "Boston Celtics"},
			HomeTeamScore:    intPtr(110),
			VisitorTeamScore: intPtr(100),
		},
	}}
}

func TestGetGames(t *testing.T) {
	router := testRouter(sampleService())

	t.Run("returns game table", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/games?start_date=2024-01-01&end_date=2024-01-31", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Columns []string          `json:"columns"`
			Rows    []json.RawMessage `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Columns, "home_team")
		assert.Len(t, body.Rows, 1)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/games?start_date=2024-01-10&end_date=2024-01-01", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing dates rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("csv format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/games?start_date=2024-01-01&end_date=2024-01-31&format=csv", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		firstLine := strings.SplitN(rec.Body.String(), "\n", 2)[0]
		assert.Equal(t, "date,season,status,home_team,home_score,visitor_team,visitor_score", firstLine)
	})
}

func TestGetRankings(t *testing.T) {
	router := testRouter(sampleService())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/games/rankings?start_date=2024-01-01&end_date=2024-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rank", body.Columns[0])
	require.Len(t, body.Rows, 2)
	assert.Equal(t, 1.0, body.Rows[0][0])
	assert.Equal(t, "Los Angeles Lakers", body.Rows[0][1])
}

func TestGetSummary(t *testing.T) {
	router := testRouter(sampleService())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/games/summary?start_date=2024-01-01&end_date=2024-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var kpis gamelog.KPISummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	assert.Equal(t, 105.0, kpis.PPG)
}

func TestMetricsRolling(t *testing.T) {
	router := testRouter(sampleService())

	t.Run("computes rolling averages", func(t *testing.T) {
		body := `{
			"table": {
				"columns": ["entity", "date", "points"],
				"rows": [
					["LAL", "2024-01-01", 10],
					["LAL", "2024-01-02", 20],
					["LAL", "2024-01-03", 30]
				]
			},
			"stat_cols": ["points"],
			"window": 2,
			"min_periods": 1
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/metrics/rolling", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Columns, "points_rolling_2")
		require.Len(t, resp.Rows, 3)
		assert.Equal(t, 25.0, resp.Rows[2][3])
	})

	t.Run("schema failure answers 422", func(t *testing.T) {
		body := `{
			"table": {"columns": ["entity", "date"], "rows": []},
			"stat_cols": ["points"]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/metrics/rolling", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "SCHEMA_ERROR")
		assert.Contains(t, rec.Body.String(), "points")
	})

	t.Run("missing table rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/metrics/rolling", strings.NewReader(`{"stat_cols":["points"]}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	router := testRouter(sampleService())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
