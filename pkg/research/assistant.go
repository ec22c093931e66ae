// Package research orchestrates a model and a search backend into finished
// reports. Standard mode searches once and streams a synthesis; deep mode
// lets the model drive web_search and fetch_url tool calls until it settles
// on an answer.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/modelclient"
	"github.com/scribehq/scribe/pkg/toolbox"
	"github.com/scribehq/scribe/pkg/websearch"
)

// ErrNoResults is returned when a search yields nothing to report on. The
// model is not called in that case.
var ErrNoResults = errors.New("research: search returned no results")

// ErrMaxIterations is returned when a deep research run exceeds its tool
// call budget without producing a final answer.
var ErrMaxIterations = errors.New("research: max iterations reached")

// Model is the slice of a provider adapter the assistant needs.
type Model interface {
	modelclient.Completer
	modelclient.Streamer
}

// Fetcher retrieves a page as plain text for the fetch_url tool.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options tunes an Assistant.
type Options struct {
	// ModelName is recorded on produced reports.
	ModelName string
	// MaxIterations bounds the deep mode tool loop. Zero means 10.
	MaxIterations int
	// OnSource is called for every source the assistant consults.
	OnSource func(websearch.Result)
}

// Assistant turns a topic into a report.
type Assistant struct {
	model    Model
	searcher websearch.Searcher
	fetcher  Fetcher
	opts     Options
}

// New creates an Assistant. fetcher may be nil, in which case deep mode
// exposes only the web_search tool.
func New(model Model, searcher websearch.Searcher, fetcher Fetcher, opts Options) *Assistant {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 10
	}

	return &Assistant{
		model:    model,
		searcher: searcher,
		fetcher:  fetcher,
		opts:     opts,
	}
}

// Generate runs the standard flow: one search, then a streamed synthesis of
// the findings. onDelta receives report fragments as they arrive and may be
// nil.
func (a *Assistant) Generate(ctx context.Context, topic string, onDelta func(string)) (Report, error) {
	results, err := a.searcher.Search(ctx, topic)
	if err != nil {
		return Report{}, fmt.Errorf("research: search %q: %w", topic, err)
	}
	if len(results) == 0 {
		return Report{}, ErrNoResults
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.URL)
		if a.opts.OnSource != nil {
			a.opts.OnSource(r)
		}
	}

	tr := convo.NewTranscript(
		convo.NewText("", convo.System, reportSystemPrompt),
		convo.NewText("user", convo.User, buildFindingsPrompt(topic, results)),
	)

	reply, err := a.model.Stream(ctx, tr, onDelta)
	if err != nil {
		return Report{}, fmt.Errorf("research: synthesize %q: %w", topic, err)
	}

	return Report{
		Topic:     topic,
		Report:    reply.TextContent(),
		Model:     a.opts.ModelName,
		Sources:   sources,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GenerateDeep runs the tool loop: the model calls web_search and fetch_url
// until it replies without tool calls, which is taken as the final report.
// onDelta receives the final text once and may be nil.
func (a *Assistant) GenerateDeep(ctx context.Context, topic string, onDelta func(string)) (Report, error) {
	collector := &sourceCollector{}
	tools := a.deepTools(collector)

	tr := convo.NewTranscript(
		convo.NewText("", convo.System, deepSystemPrompt),
		convo.NewText("user", convo.User, "Research this topic: "+topic),
	)

	for i := 0; i < a.opts.MaxIterations; i++ {
		reply, err := a.model.Complete(ctx, tr, tools.Tools())
		if err != nil {
			return Report{}, fmt.Errorf("research: deep %q: %w", topic, err)
		}
		tr.Append(reply)

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			text := reply.TextContent()
			if onDelta != nil {
				onDelta(text)
			}

			return Report{
				Topic:     topic,
				Report:    text,
				Model:     a.opts.ModelName,
				Sources:   collector.list(),
				CreatedAt: time.Now().UTC(),
			}, nil
		}

		parts := make([]convo.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, tools.Call(ctx, call))
		}
		tr.Append(convo.New("", convo.Tool, parts...))
	}

	return Report{}, ErrMaxIterations
}

func (a *Assistant) deepTools(collector *sourceCollector) *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(toolbox.Tool{
		Name:        "web_search",
		Description: "Search the web. Returns titles, URLs and content snippets.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"query": {"type": "string", "description": "Search query"}},
			"required": ["query"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			results, err := a.searcher.Search(ctx, in.Query)
			if err != nil {
				return "", err
			}
			if len(results) == 0 {
				return "No results found.", nil
			}

			for _, r := range results {
				collector.add(r.URL)
				if a.opts.OnSource != nil {
					a.opts.OnSource(r)
				}
			}

			return formatResults(results), nil
		},
	})

	if a.fetcher == nil {
		return tb
	}

	tb.Register(toolbox.Tool{
		Name:        "fetch_url",
		Description: "Fetch a web page and return its readable text.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"url": {"type": "string", "description": "Page URL"}},
			"required": ["url"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			text, err := a.fetcher.Fetch(ctx, in.URL)
			if err != nil {
				return "", err
			}

			collector.add(in.URL)
			if a.opts.OnSource != nil {
				a.opts.OnSource(websearch.Result{URL: in.URL})
			}

			return text, nil
		},
	})

	return tb
}

func buildFindingsPrompt(topic string, results []websearch.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n\nSearch findings:\n\n", topic)
	for i, r := range results {
		fmt.Fprintf(&b, "### Source %d: %s\nURL: %s\n%s\n\n", i+1, r.Title, r.URL, r.Content)
	}
	b.WriteString("Write the report now.")

	return b.String()
}

func formatResults(results []websearch.Result) string {
	var b strings.Builder

	for _, r := range results {
		fmt.Fprintf(&b, "- %s\n  %s\n  %s\n", r.Title, r.URL, r.Content)
	}

	return b.String()
}

// sourceCollector dedupes URLs gathered during a deep run.
type sourceCollector struct {
	seen map[string]struct{}
}

func (c *sourceCollector) add(url string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[url] = struct{}{}
}

func (c *sourceCollector) list() []string {
	urls := make([]string, 0, len(c.seen))
	for u := range c.seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	return urls
}
