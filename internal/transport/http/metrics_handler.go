package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "courtside/internal/errors"
	"courtside/internal/exporter"
	"courtside/internal/metrics"
	"courtside/internal/table"
)

// MetricsHandler serves the derived-statistics engines over HTTP.
type MetricsHandler struct {
	logger       *slog.Logger
	errorHandler *apierrors.Handler
}

// NewMetricsHandler creates a metrics handler.
func NewMetricsHandler(logger *slog.Logger, errorHandler *apierrors.Handler) *MetricsHandler {
	return &MetricsHandler{
		logger:       logger.With(slog.String("component", "metrics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the metrics routes.
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/rolling", h.Rolling)
	r.Post("/pace", h.Pace)
	r.Post("/trend", h.Trend)
	r.Post("/off-def-trend", h.OffDefTrend)
	r.Post("/rankings", h.Rankings)
	return r
}

// rollingRequest carries the table and parameters for a rolling-average
// computation.
type rollingRequest struct {
	Table      *table.Table `json:"table"`
	StatCols   []string     `json:"stat_cols"`
	Window     int          `json:"window"`
	EntityCol  string       `json:"entity_col"`
	DateCol    string       `json:"date_col"`
	MinPeriods int          `json:"min_periods"`
}

func (req *rollingRequest) Bind(r *http.Request) error {
	if req.Table == nil {
		return fmt.Errorf("table is required")
	}
	if len(req.StatCols) == 0 {
		return fmt.Errorf("stat_cols is required")
	}
	if req.Window < 1 {
		req.Window = 10
	}
	if req.EntityCol == "" {
		req.EntityCol = "entity"
	}
	if req.DateCol == "" {
		req.DateCol = "date"
	}
	if req.MinPeriods < 1 {
		req.MinPeriods = 1
	}
	return nil
}

// Rolling handles POST /api/metrics/rolling.
func (h *MetricsHandler) Rolling(w http.ResponseWriter, r *http.Request) {
	req := &rollingRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	result, err := metrics.ComputeRollingStats(req.Table, req.StatCols, req.Window, req.EntityCol, req.DateCol, req.MinPeriods)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, result, "rolling_stats")
}

type paceRequest struct {
	Table          *table.Table `json:"table"`
	PointsCol      string       `json:"points_col"`
	PossessionsCol string       `json:"possessions_col"`
	PaceCol        string       `json:"pace_col"`
	OutputCol      string       `json:"output_col"`
	LeagueAvgPace  *float64     `json:"league_avg_pace"`
}

func (req *paceRequest) Bind(r *http.Request) error {
	if req.Table == nil {
		return fmt.Errorf("table is required")
	}
	defaults := metrics.DefaultPaceOptions()
	if req.PointsCol == "" {
		req.PointsCol = defaults.PointsCol
	}
	if req.PossessionsCol == "" {
		req.PossessionsCol = defaults.PossessionsCol
	}
	if req.PaceCol == "" {
		req.PaceCol = defaults.PaceCol
	}
	if req.OutputCol == "" {
		req.OutputCol = defaults.OutputCol
	}
	return nil
}

// Pace handles POST /api/metrics/pace.
func (h *MetricsHandler) Pace(w http.ResponseWriter, r *http.Request) {
	req := &paceRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	result, err := metrics.ComputePaceAdjustedScoring(req.Table, metrics.PaceOptions{
		PointsCol:      req.PointsCol,
		PossessionsCol: req.PossessionsCol,
		PaceCol:        req.PaceCol,
		OutputCol:      req.OutputCol,
		LeagueAvgPace:  req.LeagueAvgPace,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, result, "pace_adjusted")
}

type trendRequest struct {
	Table     *table.Table `json:"table"`
	StatCol   string       `json:"stat_col"`
	Periods   int          `json:"periods"`
	EntityCol string       `json:"entity_col"`
	DateCol   string       `json:"date_col"`
}

func (req *trendRequest) Bind(r *http.Request) error {
	if req.Table == nil {
		return fmt.Errorf("table is required")
	}
	if req.StatCol == "" {
		return fmt.Errorf("stat_col is required")
	}
	if req.Periods < 1 {
		req.Periods = 10
	}
	if req.EntityCol == "" {
		req.EntityCol = "entity"
	}
	if req.DateCol == "" {
		req.DateCol = "date"
	}
	return nil
}

// Trend handles POST /api/metrics/trend.
func (h *MetricsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	req := &trendRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	result, err := metrics.CalculateTrend(req.Table, req.StatCol, req.Periods, req.EntityCol, req.DateCol)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, result, "trend")
}

type offDefTrendRequest struct {
	Table        *table.Table `json:"table"`
	OffensiveCol string       `json:"offensive_col"`
	DefensiveCol string       `json:"defensive_col"`
	Periods      int          `json:"periods"`
	EntityCol    string       `json:"entity_col"`
	DateCol      string       `json:"date_col"`
}

func (req *offDefTrendRequest) Bind(r *http.Request) error {
	if req.Table == nil {
		return fmt.Errorf("table is required")
	}
	if req.OffensiveCol == "" {
		req.OffensiveCol = "off_rating"
	}
	if req.DefensiveCol == "" {
		req.DefensiveCol = "def_rating"
	}
	if req.Periods < 1 {
		req.Periods = 10
	}
	if req.EntityCol == "" {
		req.EntityCol = "entity"
	}
	if req.DateCol == "" {
		req.DateCol = "date"
	}
	return nil
}

// OffDefTrend handles POST /api/metrics/off-def-trend.
func (h *MetricsHandler) OffDefTrend(w http.ResponseWriter, r *http.Request) {
	req := &offDefTrendRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	result, err := metrics.ComputeOffDefTrendDeltas(req.Table, req.OffensiveCol, req.DefensiveCol, req.Periods, req.EntityCol, req.DateCol)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, result, "off_def_trend")
}

type rankingsRequest struct {
	Table       *table.Table `json:"table"`
	Metric      string       `json:"metric"`
	Ascending   bool         `json:"ascending"`
	EntityCol   string       `json:"entity_col"`
	MinGamesCol string       `json:"min_games_col"`
	MinGames    *float64     `json:"min_games"`
}

func (req *rankingsRequest) Bind(r *http.Request) error {
	if req.Table == nil {
		return fmt.Errorf("table is required")
	}
	if req.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if req.EntityCol == "" {
		req.EntityCol = "entity"
	}
	return nil
}

// Rankings handles POST /api/metrics/rankings.
func (h *MetricsHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	req := &rankingsRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	result, err := metrics.RankEntities(req.Table, metrics.RankOptions{
		Metric:      req.Metric,
		Ascending:   req.Ascending,
		EntityCol:   req.EntityCol,
		MinGamesCol: req.MinGamesCol,
		MinGames:    req.MinGames,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondTable(w, r, result, "rankings")
}

// respondTable writes a result table as JSON, or as a CSV attachment when
// the request asks for format=csv.
func (h *MetricsHandler) respondTable(w http.ResponseWriter, r *http.Request, t *table.Table, name string) {
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
