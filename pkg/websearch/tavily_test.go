package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tavilyResults(n int) tavilyResponse {
	var resp tavilyResponse
	for i := 0; i < n; i++ {
		resp.Results = append(resp.Results, struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		}{Title: "t", URL: "https://example.com", Content: "c"})
	}
	return resp
}

func TestTavily_Search_RequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "go generics", req.Query)
		assert.Equal(t, "tvly-test", req.APIKey)
		assert.Equal(t, "advanced", req.SearchDepth)
		assert.Equal(t, 5, req.MaxResults)

		_ = json.NewEncoder(w).Encode(tavilyResults(2))
	}))
	defer srv.Close()

	tv := NewTavily("tvly-test", "advanced")
	tv.Endpoint = srv.URL

	results, err := tv.Search(context.Background(), "go generics")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "https://example.com", results[0].URL)
}

func TestTavily_Search_CapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(tavilyResults(9))
	}))
	defer srv.Close()

	tv := NewTavily("tvly-test", "")
	tv.Endpoint = srv.URL

	results, err := tv.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestTavily_Search_MissingKey(t *testing.T) {
	tv := NewTavily("  ", "")

	_, err := tv.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestTavily_Search_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(tavilyResults(1))
	}))
	defer srv.Close()

	tv := NewTavily("tvly-test", "")
	tv.Endpoint = srv.URL

	results, err := tv.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTavily_Search_429RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tv := NewTavily("tvly-test", "")
	tv.Endpoint = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tv.Search(ctx, "anything")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTavily_Search_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tv := NewTavily("tvly-test", "")
	tv.Endpoint = srv.URL

	_, err := tv.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
