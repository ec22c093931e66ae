package modelclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T, events ...string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
	}))
}

func TestClient_PostSSE_CollectsEvents(t *testing.T) {
	srv := sseServer(t, `{"n":1}`, `{"n":2}`, "[DONE]", `{"n":3}`)
	defer srv.Close()

	c := New(srv.URL, Auth{}, srv.Client())

	var got []string
	err := c.PostSSE(context.Background(), "/stream", map[string]any{}, func(data []byte) error {
		got = append(got, string(data))
		return nil
	})
	require.NoError(t, err)

	// The [DONE] marker ends the stream; nothing after it is delivered.
	assert.Equal(t, []string{`{"n":1}`, `{"n":2}`}, got)
}

func TestClient_PostSSE_SkipsCommentsAndBlankLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, ": keepalive\n\n\ndata: {\"ok\":true}\n\nnot-an-event\n")
	}))
	defer srv.Close()

	c := New(srv.URL, Auth{}, srv.Client())

	var got []string
	err := c.PostSSE(context.Background(), "/stream", map[string]any{}, func(data []byte) error {
		got = append(got, string(data))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"ok":true}`}, got)
}

func TestClient_PostSSE_CallbackErrorStops(t *testing.T) {
	srv := sseServer(t, `{"n":1}`, `{"n":2}`)
	defer srv.Close()

	c := New(srv.URL, Auth{}, srv.Client())

	wantErr := errors.New("bad chunk")
	calls := 0
	err := c.PostSSE(context.Background(), "/stream", map[string]any{}, func([]byte) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestClient_PostSSE_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, Auth{}, srv.Client())

	err := c.PostSSE(context.Background(), "/stream", map[string]any{}, func([]byte) error { return nil })

	var rle *RateLimitError
	assert.ErrorAs(t, err, &rle)
}
