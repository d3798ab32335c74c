// Package polygon implements the market-data provider against the Polygon.io
// REST and WebSocket APIs, with rate limiting, retries, response caching, and
// a fixture fallback for offline development.
package polygon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	"github.com/david89it/trading-opportunities-platform/pkg/cache"
	xhttp "github.com/david89it/trading-opportunities-platform/pkg/http"
	"github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Per-tier request budgets, requests per minute.
var tierLimits = map[string]int{
	"basic":    5,
	"starter":  100,
	"advanced": 1000,
}

// ClientOption configures Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	apiKey      string
	baseURL     string
	tier        string
	useLive     bool
	fixturesDir string
	cacheTTL    time.Duration
	timeout     time.Duration
	maxRetries  uint64
}

// Client fetches bars and snapshots from Polygon. It implements the
// MarketData interface consumed by the scan service.
type Client struct {
	http    *xhttp.Client
	cache   cache.Service
	log     *logger.Logger
	limiter *rate.Limiter
	cfg     clientConfig
}

// NewClient creates a Polygon client. A nil cache disables response caching.
func NewClient(c cache.Service, log *logger.Logger, opts ...ClientOption) *Client {
	cfg := clientConfig{
		baseURL:     "https://api.polygon.io",
		tier:        "basic",
		fixturesDir: "fixtures/polygon",
		cacheTTL:    time.Minute,
		timeout:     15 * time.Second,
		maxRetries:  3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rpm, ok := tierLimits[cfg.tier]
	if !ok {
		rpm = tierLimits["basic"]
	}

	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.timeout)),
		cache:   c,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		cfg:     cfg,
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTier selects the rate-limit tier (basic, starter, advanced).
func WithTier(tier string) ClientOption {
	return func(c *clientConfig) {
		if tier != "" {
			c.tier = tier
		}
	}
}

// WithLive toggles live API calls; when false, fixtures are served.
func WithLive(live bool) ClientOption {
	return func(c *clientConfig) { c.useLive = live }
}

// WithFixturesDir sets the directory holding fixture JSON responses.
func WithFixturesDir(dir string) ClientOption {
	return func(c *clientConfig) {
		if dir != "" {
			c.fixturesDir = dir
		}
	}
}

// WithCacheTTL sets how long fetched responses stay cached.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *clientConfig) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// aggsResponse is the shape of /v2/aggs responses.
type aggsResponse struct {
	Ticker       string      `json:"ticker"`
	ResultsCount int         `json:"resultsCount"`
	Results      []aggResult `json:"results"`
	Status       string      `json:"status"`
}

type aggResult struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	Timestamp int64   `json:"t"` // millis
}

// snapshotResponse is the shape of single-ticker snapshot responses.
type snapshotResponse struct {
	Status string `json:"status"`
	Ticker struct {
		Ticker string `json:"ticker"`
		Day    struct {
			Open   float64 `json:"o"`
			High   float64 `json:"h"`
			Low    float64 `json:"l"`
			Close  float64 `json:"c"`
			Volume float64 `json:"v"`
		} `json:"day"`
		PrevDay struct {
			Open   float64 `json:"o"`
			High   float64 `json:"h"`
			Low    float64 `json:"l"`
			Close  float64 `json:"c"`
			Volume float64 `json:"v"`
		} `json:"prevDay"`
		LastQuote struct {
			Bid float64 `json:"p"`
			Ask float64 `json:"P"`
		} `json:"lastQuote"`
		Updated int64 `json:"updated"` // nanos
	} `json:"ticker"`
}

// GetBars returns the most recent count daily bars for symbol, oldest first.
func (c *Client) GetBars(ctx context.Context, symbol string, count int) ([]models.Bar, error) {
	if count <= 0 {
		return nil, fmt.Errorf("bar count must be positive")
	}

	var resp aggsResponse
	cacheKey := cache.GenerateKeyWithParams("bars", symbol, count)
	if c.cacheGet(ctx, cacheKey, &resp) {
		return c.toBars(resp, count), nil
	}

	if !c.cfg.useLive {
		if err := c.loadFixture("aggregates-daily", &resp); err != nil {
			return nil, err
		}
		resp.Ticker = symbol
	} else {
		// Over-fetch calendar days to cover weekends and holidays.
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -(count*7/5 + 10))
		endpoint := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
			symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

		if err := c.request(ctx, endpoint, map[string][]string{
			"adjusted": {"true"},
			"sort":     {"asc"},
			"limit":    {"50000"},
		}, &resp); err != nil {
			return nil, fmt.Errorf("get bars for %s: %w", symbol, err)
		}
	}

	c.cacheSet(ctx, cacheKey, resp)
	return c.toBars(resp, count), nil
}

// GetSnapshot returns the current view of a ticker.
func (c *Client) GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	var resp snapshotResponse
	cacheKey := cache.GenerateKey("snapshot", symbol)
	if c.cacheGet(ctx, cacheKey, &resp) {
		return c.toSnapshot(symbol, resp), nil
	}

	if !c.cfg.useLive {
		if err := c.loadFixture("single-ticker-snapshot", &resp); err != nil {
			return nil, err
		}
		resp.Ticker.Ticker = symbol
	} else {
		endpoint := fmt.Sprintf("/v2/snapshot/locale/us/markets/stocks/tickers/%s", symbol)
		if err := c.request(ctx, endpoint, nil, &resp); err != nil {
			return nil, fmt.Errorf("get snapshot for %s: %w", symbol, err)
		}
	}

	c.cacheSet(ctx, cacheKey, resp)
	return c.toSnapshot(symbol, resp), nil
}

func (c *Client) toBars(resp aggsResponse, count int) []models.Bar {
	results := resp.Results
	if len(results) > count {
		results = results[len(results)-count:]
	}
	bars := make([]models.Bar, len(results))
	for i, r := range results {
		bars[i] = models.Bar{
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    int64(r.Volume),
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		}
	}
	return bars
}

func (c *Client) toSnapshot(symbol string, resp snapshotResponse) *models.Snapshot {
	t := resp.Ticker
	snap := &models.Snapshot{
		Symbol: symbol,
		Price:  t.Day.Close,
		Volume: int64(t.Day.Volume),
		Bid:    t.LastQuote.Bid,
		Ask:    t.LastQuote.Ask,
	}
	if t.Updated > 0 {
		snap.UpdatedAt = time.Unix(0, t.Updated).UTC()
	}
	if t.PrevDay.Close > 0 {
		snap.PrevDay = &models.Bar{
			Open:   t.PrevDay.Open,
			High:   t.PrevDay.High,
			Low:    t.PrevDay.Low,
			Close:  t.PrevDay.Close,
			Volume: int64(t.PrevDay.Volume),
		}
	}
	return snap
}

// request performs a rate-limited GET with exponential-backoff retries.
// 4xx responses other than 429 are not retried.
func (c *Client) request(ctx context.Context, endpoint string, params map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	query := map[string][]string{"apiKey": {c.cfg.apiKey}}
	for k, v := range params {
		query[k] = v
	}

	operation := func() error {
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.cfg.baseURL + endpoint,
			QueryParams: query,
		}, dest)
		if err == nil {
			return nil
		}

		var statusErr *xhttp.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.Code >= 400 && statusErr.Code < 500 && statusErr.Code != 429 {
				return backoff.Permanent(err)
			}
		}
		if c.log != nil {
			c.log.Warn("polygon request retrying",
				logger.String("endpoint", endpoint),
				logger.Error(err),
			)
		}
		return err
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.maxRetries), ctx)
	return backoff.Retry(operation, bo)
}

func (c *Client) loadFixture(name string, dest interface{}) error {
	path := filepath.Join(c.cfg.fixturesDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	if c.log != nil {
		c.log.Debug("serving fixture data", logger.String("fixture", name))
	}
	return nil
}

func (c *Client) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.Get(ctx, key, dest) == nil
}

func (c *Client) cacheSet(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.cfg.cacheTTL); err != nil && c.log != nil {
		c.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}
