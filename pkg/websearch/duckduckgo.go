package websearch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDuckDuckGoURL is the DuckDuckGo lite endpoint, which returns plain
// HTML suitable for scraping.
const DefaultDuckDuckGoURL = "https://lite.duckduckgo.com/lite/"

var (
	ddgAnchorRe  = regexp.MustCompile(`<a[^>]+class="result-link"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetRe = regexp.MustCompile(`<td[^>]+class="result-snippet"[^>]*>(.*?)</td>`)
	ddgTagRe     = regexp.MustCompile(`<[^>]*>`)
)

// DuckDuckGo scrapes the DuckDuckGo lite page. It needs no API key, so it is
// the fallback when no Tavily key is configured. Requests are limited to one
// per second to stay polite.
type DuckDuckGo struct {
	MaxResults int
	Endpoint   string

	client  *http.Client
	limiter *rate.Limiter
}

// NewDuckDuckGo constructs a keyless search client.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		MaxResults: 5,
		Endpoint:   DefaultDuckDuckGoURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Search fetches the lite results page and extracts links and snippets.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := d.Endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; scribe/1.0)")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	return d.parse(string(body)), nil
}

func (d *DuckDuckGo) parse(page string) []Result {
	anchors := ddgAnchorRe.FindAllStringSubmatch(page, -1)
	snippets := ddgSnippetRe.FindAllStringSubmatch(page, -1)

	max := d.MaxResults
	if max <= 0 {
		max = 5
	}

	results := make([]Result, 0, max)
	for i, a := range anchors {
		if len(results) >= max {
			break
		}

		r := Result{
			URL:   html.UnescapeString(a[1]),
			Title: cleanFragment(a[2]),
		}
		if i < len(snippets) {
			r.Content = cleanFragment(snippets[i][1])
		}

		results = append(results, r)
	}

	return results
}

func cleanFragment(s string) string {
	s = ddgTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
