// Package websearch provides web search clients for the research assistant.
// Tavily is the primary backend; DuckDuckGo serves as a keyless fallback.
package websearch

import "context"

// Result is a single item returned by a Searcher.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher executes a query and returns results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
