package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTavilyURL is the Tavily search endpoint.
const DefaultTavilyURL = "https://api.tavily.com/search"

// ErrMissingAPIKey is returned when a Tavily search is attempted without a key.
var ErrMissingAPIKey = errors.New("tavily: API key is missing")

// maxBackoff caps the doubling retry delay on 429 responses.
const maxBackoff = 30 * time.Second

// Tavily calls the Tavily search API.
type Tavily struct {
	APIKey string
	// Depth controls Tavily's search_depth parameter (basic or advanced).
	Depth string
	// MaxResults caps the number of results returned (default 5).
	MaxResults int
	// Endpoint overrides the API URL, mainly for tests.
	Endpoint string

	client  *http.Client
	limiter *rate.Limiter
}

// TavilyOption configures a Tavily client.
type TavilyOption func(*Tavily)

// WithClient overrides the HTTP client, e.g. to change the timeout.
func WithClient(client *http.Client) TavilyOption {
	return func(t *Tavily) { t.client = client }
}

// WithQPS limits outgoing queries per second. Zero means no limit.
func WithQPS(qps float64) TavilyOption {
	return func(t *Tavily) {
		if qps > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

// NewTavily constructs a Tavily search client. An empty depth defaults to
// "basic".
func NewTavily(apiKey, depth string, opts ...TavilyOption) *Tavily {
	if depth == "" {
		depth = "basic"
	}

	t := &Tavily{
		APIKey:     apiKey,
		Depth:      depth,
		MaxResults: 5,
		Endpoint:   DefaultTavilyURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

type tavilyRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search posts a query to Tavily. HTTP 429 responses are retried with a
// doubling delay capped at 30 seconds until ctx is cancelled.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		APIKey:      t.APIKey,
		SearchDepth: t.Depth,
		MaxResults:  t.MaxResults,
	})
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		_ = resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < maxBackoff {
			delay *= 2
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: http %d", resp.StatusCode)
	}

	var body tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	max := t.MaxResults
	if max <= 0 {
		max = 5
	}

	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: r.Content})
		if len(results) >= max {
			break
		}
	}

	return results, nil
}
