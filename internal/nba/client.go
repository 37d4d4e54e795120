// Package nba provides the client for the public games API (balldontlie).
// The client only fetches and decodes; retry and timeout policy beyond the
// per-request deadline belongs to the caller, and failed requests surface as
// errors rather than partial data.
package nba

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"courtside/internal/gamelog"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.balldontlie.io/v1"

// Options configures the API client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	PerPage int
	// RequestsPerSecond throttles outbound calls; the free API tier is
	// rate limited server-side and answers 429 past it.
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// Client talks to the games API.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	perPage int
	logger  *slog.Logger
}

// NewClient creates a client with sane defaults for unset options.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PerPage <= 0 || opts.PerPage > 100 {
		opts.PerPage = 100
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		httpClient.SetHeader("Authorization", opts.APIKey)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		perPage: opts.PerPage,
		logger:  opts.Logger.With(slog.String("component", "nba_client")),
	}
}

type meta struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	NextPage    int `json:"next_page"`
	PerPage     int `json:"per_page"`
	TotalCount  int `json:"total_count"`
}

type gamesResponse struct {
	Data []gamelog.GameRecord `json:"data"`
	Meta meta                 `json:"meta"`
}

// TeamInfo is one entry of the team catalog.
type TeamInfo struct {
	ID         int    `json:"id"`
	FullName   string `json:"full_name"`
	City       string `json:"city"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

type teamsResponse struct {
	Data []TeamInfo `json:"data"`
}

// PlayerInfo is one entry of a player search.
type PlayerInfo struct {
	ID        int      `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Team      TeamInfo `json:"team"`
}

type playersResponse struct {
	Data []PlayerInfo `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("request %s: unexpected status %s", path, resp.Status())
	}
	return nil
}

// Teams returns the team catalog.
func (c *Client) Teams(ctx context.Context) ([]TeamInfo, error) {
	var out teamsResponse
	if err := c.get(ctx, "/teams", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Players searches the player catalog. An empty search returns the first
// page of all players.
func (c *Client) Players(ctx context.Context, search string) ([]PlayerInfo, error) {
	params := map[string]string{"per_page": "50"}
	if search != "" {
		params["search"] = search
	}
	var out playersResponse
	if err := c.get(ctx, "/players", params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Games fetches all games in [start, end] for the given teams (all teams
// when teamIDs is empty), following pagination. The first page is fetched
// synchronously to learn the page count; remaining pages are fetched
// concurrently and merged in page order.
func (c *Client) Games(ctx context.Context, start, end time.Time, teamIDs []int) ([]gamelog.GameRecord, error) {
	if ok, msg := ValidateDateRange(start, end); !ok {
		return nil, fmt.Errorf("invalid date range: %s", msg)
	}

	baseParams := map[string]string{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"per_page":   strconv.Itoa(c.perPage),
	}
	for i, id := range teamIDs {
		baseParams[fmt.Sprintf("team_ids[%d]", i)] = strconv.Itoa(id)
	}

	first, err := c.gamesPage(ctx, baseParams, 1)
	if err != nil {
		return nil, err
	}
	totalPages := first.Meta.TotalPages
	c.logger.InfoContext(ctx, "fetched games page",
		"page", 1,
		"total_pages", totalPages,
		"total_count", first.Meta.TotalCount,
	)
	if totalPages <= 1 {
		return first.Data, nil
	}

	var mu sync.Mutex
	pages := map[int][]gamelog.GameRecord{1: first.Data}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for page := 2; page <= totalPages; page++ {
		page := page
		g.Go(func() error {
			resp, err := c.gamesPage(gctx, baseParams, page)
			if err != nil {
				return err
			}
			mu.Lock()
			pages[page] = resp.Data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	var games []gamelog.GameRecord
	for _, n := range nums {
		games = append(games, pages[n]...)
	}
	return games, nil
}

func (c *Client) gamesPage(ctx context.Context, base map[string]string, page int) (*gamesResponse, error) {
	params := make(map[string]string, len(base)+1)
	for k, v := range base {
		params[k] = v
	}
	params["page"] = strconv.Itoa(page)

	var out gamesResponse
	if err := c.get(ctx, "/games", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
