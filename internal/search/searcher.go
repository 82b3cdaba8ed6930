// Package search queries an external ranked-result provider and optionally
// fetches result page content for caching.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/athenahq/athena/internal/model"
	"github.com/athenahq/athena/internal/util"
	"github.com/athenahq/athena/internal/worker"
)

// Searcher finds web sources relevant to a query. Implementations may
// return an empty list.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// Config configures the HTTP searcher
type Config struct {
	Endpoint     string        // Search API endpoint; empty disables search
	APIKey       string        // Bearer token, if the provider needs one
	MaxResults   int           // Cap on raw results requested
	Timeout      time.Duration // Per-request timeout
	UserAgent    string
	MaxBodyBytes int64   // Limit when fetching result pages
	FetchContent bool    // Fetch page content for results that lack it
	RatePerHost  float64 // Requests per second per host for page fetches
}

// HTTPSearcher queries a JSON search API and can enrich results with page
// content fetched politely (robots.txt + per-host rate limit).
type HTTPSearcher struct {
	cfg        Config
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewHTTPSearcher creates a searcher from config
func NewHTTPSearcher(cfg Config) *HTTPSearcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 2_000_000
	}
	if cfg.RatePerHost <= 0 {
		cfg.RatePerHost = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Athena/1.0 (+https://github.com/athenahq/athena)"
	}
	return &HTTPSearcher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:  util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter: worker.NewLimiter(cfg.RatePerHost, 2),
	}
}

// searchResponse is the provider's wire format
type searchResponse struct {
	Results []model.SearchResult `json:"results"`
}

// Search queries the provider and returns raw results. A searcher without a
// configured endpoint returns an empty list, which sends the pipeline down
// the no-results path rather than failing the request.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if s.cfg.Endpoint == "" {
		return []model.SearchResult{}, nil
	}

	reqURL := fmt.Sprintf("%s?q=%s&limit=%d", s.cfg.Endpoint, url.QueryEscape(query), s.cfg.MaxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	// Results without a URL are unusable downstream
	results := decoded.Results[:0]
	for _, r := range decoded.Results {
		if r.URL != "" {
			results = append(results, r)
		}
	}

	if s.cfg.FetchContent {
		s.enrichContent(ctx, results)
	}
	return results, nil
}

// enrichContent fetches page content for results that lack it. Fetch
// failures only leave content empty; they never fail the search.
func (s *HTTPSearcher) enrichContent(ctx context.Context, results []model.SearchResult) {
	for i := range results {
		if results[i].Content != "" {
			continue
		}
		content, err := s.fetchPage(ctx, results[i].URL)
		if err != nil {
			zap.L().Debug("page fetch failed",
				zap.String("url", results[i].URL), zap.Error(err))
			continue
		}
		results[i].Content = content
	}
}

// fetchPage retrieves a result page, honoring robots.txt and the per-host
// rate limit
func (s *HTTPSearcher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	allowed, crawlDelay, err := s.robots.CanFetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt")
	}
	if err := s.limiter.WaitWithDelay(ctx, pageURL, crawlDelay); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
