package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "courtside/internal/errors"
	"courtside/internal/exporter"
	"courtside/internal/gamelog"
	"courtside/internal/metrics"
	"courtside/internal/nba"
	"courtside/internal/table"
)

// GamesService is the slice of the games API client used by the handler.
type GamesService interface {
	Games(ctx context.Context, start, end time.Time, teamIDs []int) ([]gamelog.GameRecord, error)
	Teams(ctx context.Context) ([]nba.TeamInfo, error)
}

// GamesHandler serves game results and the aggregations derived from the
// team game log.
type GamesHandler struct {
	service      GamesService
	logger       *slog.Logger
	errorHandler *apierrors.Handler
}

// NewGamesHandler creates a games handler.
func NewGamesHandler(service GamesService, logger *slog.Logger, errorHandler *apierrors.Handler) *GamesHandler {
	return &GamesHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "games_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the game routes.
func (h *GamesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetGames)
	r.Get("/teams", h.GetTeams)
	r.Get("/summary", h.GetSummary)
	r.Get("/trend", h.GetTrend)
	r.Get("/rankings", h.GetRankings)
	return r
}

// gameQuery holds the parsed common query parameters.
type gameQuery struct {
	start   time.Time
	end     time.Time
	teamIDs []int
}

func parseGameQuery(r *http.Request) (gameQuery, error) {
	q := r.URL.Query()

	startStr := q.Get("start_date")
	endStr := q.Get("end_date")
	if startStr == "" || endStr == "" {
		return gameQuery{}, fmt.Errorf("start_date and end_date are required")
	}
	start, ok := table.ParseDate(startStr)
	if !ok {
		return gameQuery{}, fmt.Errorf("invalid start_date: %s", startStr)
	}
	end, ok := table.ParseDate(endStr)
	if !ok {
		return gameQuery{}, fmt.Errorf("invalid end_date: %s", endStr)
	}
	if valid, msg := nba.ValidateDateRange(start, end); !valid {
		return gameQuery{}, fmt.Errorf("%s", msg)
	}

	var teamIDs []int
	if ids := q.Get("team_ids"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return gameQuery{}, fmt.Errorf("invalid team id: %s", part)
			}
			teamIDs = append(teamIDs, id)
		}
	}
	return gameQuery{start: start, end: end, teamIDs: teamIDs}, nil
}

func (h *GamesHandler) fetchLog(r *http.Request) (*table.Table, error) {
	query, err := parseGameQuery(r)
	if err != nil {
		return nil, apierrors.ErrValidation("query", err.Error())
	}
	games, err := h.service.Games(r.Context(), query.start, query.end, query.teamIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}
	return gamelog.BuildTeamGameLog(games), nil
}

// GetGames handles GET /api/games.
func (h *GamesHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	query, err := parseGameQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, apierrors.ErrValidation("query", err.Error()))
		return
	}
	games, err := h.service.Games(r.Context(), query.start, query.end, query.teamIDs)
	if err != nil {
		h.errorHandler.Handle(w, r, fmt.Errorf("fetch games: %w", err))
		return
	}
	h.respondTable(w, r, gamelog.GamesTable(games), "games")
}

// GetTeams handles GET /api/games/teams.
func (h *GamesHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Teams(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, fmt.Errorf("fetch teams: %w", err))
		return
	}
	render.JSON(w, r, map[string]any{"data": teams})
}

// GetSummary handles GET /api/games/summary with the KPI values for the
// selected range.
func (h *GamesHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log, err := h.fetchLog(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	render.JSON(w, r, gamelog.SummarizeKPIs(log))
}

// GetTrend handles GET /api/games/trend: per-date metric means.
func (h *GamesHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	log, err := h.fetchLog(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, gamelog.TrendByDate(log), "trend_by_date")
}

// GetRankings handles GET /api/games/rankings: per-team metric means,
// dense-ranked by the chosen metric (default ppg). min_games filters teams
// below the threshold.
func (h *GamesHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	log, err := h.fetchLog(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "ppg"
	}
	opts := metrics.RankOptions{Metric: metric, EntityCol: "team"}
	if mg := r.URL.Query().Get("min_games"); mg != "" {
		threshold, err := strconv.ParseFloat(mg, 64)
		if err != nil {
			h.errorHandler.Handle(w, r, apierrors.ErrValidation("min_games", "must be numeric"))
			return
		}
		opts.MinGamesCol = "games"
		opts.MinGames = &threshold
	}

	ranked, err := metrics.RankEntities(gamelog.TeamRanking(log), opts)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, ranked, "team_rankings")
}

func (h *GamesHandler) respondTable(w http.ResponseWriter, r *http.Request, t *table.Table, name string) {
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
		if err := exporter.EncodeTable(w, t); err != nil {
			h.logger.ErrorContext(r.Context(), "stream CSV failed", "error", err)
		}
		return
	}
	render.JSON(w, r, t)
}
