// Package webfetch downloads a page and reduces it to readable text so an
// assistant can quote sources without choking on markup.
package webfetch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// MaxContentBytes caps the text returned from a single page. Pages longer
// than this are truncated with a marker.
const MaxContentBytes = 32 * 1024

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
)

// Fetcher retrieves pages over HTTP and strips them to plain text.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher. A nil client gets a 15 second timeout default.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: client}
}

// Fetch downloads url and returns its visible text, truncated to
// MaxContentBytes.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; scribe/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webfetch: %s: http %d", url, resp.StatusCode)
	}

	// Read a bit more than the cap so truncation lands on cleaned text.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*MaxContentBytes))
	if err != nil {
		return "", err
	}

	return Truncate(StripHTML(string(body))), nil
}

// StripHTML removes scripts, styles and tags, unescapes entities and
// collapses whitespace.
func StripHTML(page string) string {
	page = scriptRe.ReplaceAllString(page, "")
	page = styleRe.ReplaceAllString(page, "")
	page = tagRe.ReplaceAllString(page, "\n")
	page = html.UnescapeString(page)

	lines := strings.Split(page, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
	}
	page = strings.Join(lines, "\n")
	page = blankRe.ReplaceAllString(page, "\n\n")

	return strings.TrimSpace(page)
}

// Truncate cuts text at MaxContentBytes and appends a marker when it does.
func Truncate(text string) string {
	if len(text) <= MaxContentBytes {
		return text
	}
	return text[:MaxContentBytes] + "\n... [truncated]"
}
