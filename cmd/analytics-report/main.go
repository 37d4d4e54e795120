// Command analytics-report fetches a date range of games (or loads a saved
// JSON payload), builds the team game log, and writes CSV and XLSX reports:
// game results, per-date trend, trend deltas, and dense-ranked team
// rankings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"courtside/internal/config"
	"courtside/internal/exporter"
	"courtside/internal/gamelog"
	"courtside/internal/metrics"
	"courtside/internal/nba"
	"courtside/internal/table"
)

func main() {
	var (
		startStr  = flag.String("start", "", "start date (YYYY-MM-DD, default 30 days ago)")
		endStr    = flag.String("end", "", "end date (YYYY-MM-DD, default today)")
		teamsStr  = flag.String("teams", "", "comma-separated team ids (default all teams)")
		gamesFile = flag.String("games-file", "", "load games from a JSON file instead of the API")
		window    = flag.Int("window", 5, "rolling window size in games")
		periods   = flag.Int("periods", 5, "trend window size in games")
		metric    = flag.String("metric", "ppg", "ranking metric (ppg, ast_proxy, reb_proxy, net_rating_proxy)")
		minGames  = flag.Float64("min-games", 0, "minimum games for ranking eligibility (0 disables)")
		outDir    = flag.String("out", "", "output directory (defaults to the configured export dir)")
		xlsx      = flag.Bool("xlsx", false, "also write an XLSX workbook per report")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if *outDir == "" {
		*outDir = cfg.Export.Dir
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endStr != "" {
		var ok bool
		if end, ok = table.ParseDate(*endStr); !ok {
			slog.Error("invalid end date", "value", *endStr)
			os.Exit(1)
		}
	}
	start := end.AddDate(0, 0, -30)
	if *startStr != "" {
		var ok bool
		if start, ok = table.ParseDate(*startStr); !ok {
			slog.Error("invalid start date", "value", *startStr)
			os.Exit(1)
		}
	}
	if valid, msg := nba.ValidateDateRange(start, end); !valid {
		slog.Error("invalid date range", "reason", msg)
		os.Exit(1)
	}

	games, err := loadGames(cfg, start, end, *teamsStr, *gamesFile)
	if err != nil {
		slog.Error("failed to load games", "error", err)
		os.Exit(1)
	}
	if len(games) == 0 {
		slog.Error("no games found for the requested range",
			"start", start.Format("2006-01-02"),
			"end", end.Format("2006-01-02"))
		os.Exit(1)
	}
	slog.Info("loaded games", "count", len(games))

	log := gamelog.BuildTeamGameLog(games)
	kpis := gamelog.SummarizeKPIs(log)
	slog.Info("game log built",
		"rows", log.NumRows(),
		"ppg", fmt.Sprintf("%.1f", kpis.PPG),
		"net_rating_proxy", fmt.Sprintf("%.2f", kpis.NetRatingProxy))

	reports := map[string]*table.Table{
		"games":         gamelog.GamesTable(games),
		"trend_by_date": gamelog.TrendByDate(log),
	}

	rolling, err := metrics.ComputeRollingStats(log,
		[]string{gamelog.ColPoints, gamelog.ColNetRatingProxy},
		*window, gamelog.ColTeam, gamelog.ColDate, 1)
	if err != nil {
		slog.Error("rolling stats failed", "error", err)
		os.Exit(1)
	}
	reports["rolling_stats"] = rolling

	trendDeltas, err := metrics.ComputeOffDefTrendDeltas(log,
		gamelog.ColPoints, gamelog.ColOpponentPoints,
		*periods, gamelog.ColTeam, gamelog.ColDate)
	if err != nil {
		slog.Error("trend deltas failed", "error", err)
		os.Exit(1)
	}
	reports["trend_deltas"] = trendDeltas

	rankOpts := metrics.RankOptions{Metric: *metric, EntityCol: "team"}
	if *minGames > 0 {
		rankOpts.MinGamesCol = "games"
		rankOpts.MinGames = minGames
	}
	rankings, err := metrics.RankEntities(gamelog.TeamRanking(log), rankOpts)
	if err != nil {
		slog.Error("rankings failed", "error", err)
		os.Exit(1)
	}
	reports["team_rankings"] = rankings

	for name, t := range reports {
		csvPath := filepath.Join(*outDir, name+".csv")
		if err := exporter.WriteTable(csvPath, t, exporter.WriteOptions{BOMPrefix: cfg.Export.BOMPrefix}); err != nil {
			slog.Error("failed to write report", "report", name, "error", err)
			os.Exit(1)
		}
		if *xlsx {
			xlsxPath := filepath.Join(*outDir, name+".xlsx")
			if err := exporter.WriteTableXLSX(xlsxPath, name, t); err != nil {
				slog.Error("failed to write workbook", "report", name, "error", err)
				os.Exit(1)
			}
		}
	}
	slog.Info("reports written", "dir", *outDir, "count", len(reports))
}

// loadGames reads games either from a saved JSON payload or from the games
// API.
func loadGames(cfg *config.Config, start, end time.Time, teamsStr, gamesFile string) ([]gamelog.GameRecord, error) {
	if gamesFile != "" {
		data, err := os.ReadFile(gamesFile)
		if err != nil {
			return nil, fmt.Errorf("read games file: %w", err)
		}
		return gamelog.ParseGames(data)
	}

	var teamIDs []int
	if teamsStr != "" {
		for _, part := range strings.Split(teamsStr, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid team id %q", part)
			}
			teamIDs = append(teamIDs, id)
		}
	}

	client := nba.NewClient(nba.Options{
		BaseURL:           cfg.NBA.BaseURL,
		APIKey:            cfg.NBA.APIKey,
		Timeout:           cfg.NBA.Timeout,
		PerPage:           cfg.NBA.PerPage,
		RequestsPerSecond: cfg.NBA.RequestsPerSecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return client.Games(ctx, start, end, teamIDs)
}
