// Package modelclient holds the shared HTTP plumbing for LLM provider
// adapters: auth, request building, JSON posting, server-sent-event
// streaming, rate-limit errors, and token usage tracking. Concrete providers
// embed Client and implement Complete (and optionally Stream) on top of it.
package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/modelclient/usage"
	"github.com/scribehq/scribe/pkg/toolbox"
)

// RateLimitError is returned when the API responds with HTTP 429. It carries
// an optional RetryAfter duration parsed from the Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// ParseRetryAfter parses a Retry-After header value as either seconds or an
// HTTP-date. Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// Completer sends a conversation to an LLM and returns the assistant's reply.
// The tools parameter declares which tools are available for this call.
type Completer interface {
	Complete(ctx context.Context, t *convo.Transcript, tools []toolbox.Tool) (convo.Message, error)
}

// Streamer is implemented by completers that can deliver the reply
// incrementally. onDelta is invoked for each text fragment as it arrives;
// the returned message carries the full assembled reply.
type Streamer interface {
	Stream(ctx context.Context, t *convo.Transcript, onDelta func(string)) (convo.Message, error)
}

// UsageReporter provides token usage information from a completer.
// Completers that embed Client implement this interface automatically.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
	ModelMaxTokens() int
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Client holds shared state for LLM provider implementations. Embed it in
// concrete provider structs to get HTTP helpers, auth, custom headers, and
// usage tracking. Concrete types should define their own Complete method to
// shadow the default stub.
type Client struct {
	Name        string            // Model identifier (e.g. "llama3-70b-8192").
	Temperature float64           // Sampling temperature.
	MaxTokens   int               // Maximum tokens in the response.
	Auth        Auth              // Authentication settings.
	BaseURL     string            // API base URL (no trailing slash).
	HTTPClient  *http.Client      // HTTP client; falls back to a shared default.
	Headers     map[string]string // Extra headers applied to every request.
	Usage       usage.Tracker     // Token usage tracker.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a Client with the given settings. A nil httpClient falls back
// to a shared default with a 10-minute timeout at call time.
func New(baseURL string, auth Auth, httpClient *http.Client) Client {
	return Client{
		Auth:       auth,
		BaseURL:    baseURL,
		HTTPClient: httpClient,
	}
}

// UsageTracker returns the client's token usage tracker.
func (c *Client) UsageTracker() *usage.Tracker { return &c.Usage }

// ModelMaxTokens returns the maximum tokens the model will generate per
// response.
func (c *Client) ModelMaxTokens() int { return c.MaxTokens }

// Complete is a stub that returns an error. Concrete providers that embed
// Client should define their own Complete method to shadow this one.
func (c *Client) Complete(_ context.Context, _ *convo.Transcript, _ []toolbox.Tool) (convo.Message, error) {
	return convo.Message{}, errors.New("modelclient: Complete not implemented")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})

	return c.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if c.Auth.Key != "" {
		header := c.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := c.Auth.Key
		if header == "Authorization" {
			scheme := c.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}
			value = scheme + " " + value
		} else if c.Auth.Scheme != "" {
			value = c.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient().Do(req)
}

// PostJSON marshals payload as JSON, sends a POST to the given path, checks
// for a 2xx status, and unmarshals the response body into dest. If dest is
// nil the response body is discarded after the status check.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	resp, err := c.postForResponse(ctx, path, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// postForResponse sends a JSON POST and returns the response after the
// status check. The caller owns the body.
func (c *Client) postForResponse(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &RateLimitError{
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       string(respBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return resp, nil
}
