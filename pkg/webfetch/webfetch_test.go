package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_StripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><head><style>body{color:red}</style>
<script>alert("hi")</script></head>
<body><h1>Title</h1><p>First &amp; second.</p></body></html>`)
	}))
	defer srv.Close()

	text, err := New(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "First & second.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "<p>")
}

func TestFetcher_Fetch_TruncatesLongPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<body>"+strings.Repeat("word ", 20_000)+"</body>")
	}))
	defer srv.Close()

	text, err := New(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(text), MaxContentBytes+len("\n... [truncated]"))
	assert.True(t, strings.HasSuffix(text, "[truncated]"))
}

func TestFetcher_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.Client()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestStripHTML_CollapsesBlankLines(t *testing.T) {
	got := StripHTML("<div>a</div>\n\n\n\n<div>b</div>")
	assert.Equal(t, "a\n\nb", got)
}
