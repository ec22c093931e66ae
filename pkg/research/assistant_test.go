package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/toolbox"
	"github.com/scribehq/scribe/pkg/websearch"
)

type fakeModel struct {
	// replies are returned by Complete in order.
	replies []convo.Message
	calls   int

	streamText string
	streamErr  error

	lastTools      []toolbox.Tool
	lastTranscript *convo.Transcript
}

func (f *fakeModel) Complete(_ context.Context, tr *convo.Transcript, tools []toolbox.Tool) (convo.Message, error) {
	f.lastTools = tools
	f.lastTranscript = tr

	if f.calls >= len(f.replies) {
		return convo.Message{}, errors.New("no scripted reply")
	}
	reply := f.replies[f.calls]
	f.calls++

	return reply, nil
}

func (f *fakeModel) Stream(_ context.Context, tr *convo.Transcript, onDelta func(string)) (convo.Message, error) {
	f.lastTranscript = tr
	if f.streamErr != nil {
		return convo.Message{}, f.streamErr
	}
	if onDelta != nil {
		onDelta(f.streamText)
	}

	return convo.NewText("model", convo.Assistant, f.streamText), nil
}

type fakeSearcher struct {
	results []websearch.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]websearch.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

func TestGenerate_StreamsReport(t *testing.T) {
	model := &fakeModel{streamText: "# Go Generics\n\nreport body"}
	searcher := &fakeSearcher{results: []websearch.Result{
		{Title: "Intro", URL: "https://go.dev/blog/intro-generics", Content: "snippet"},
	}}

	var seen []string
	a := New(model, searcher, nil, Options{
		ModelName: "llama-3.3-70b",
		OnSource:  func(r websearch.Result) { seen = append(seen, r.URL) },
	})

	var streamed string
	report, err := a.Generate(context.Background(), "go generics", func(d string) { streamed += d })
	require.NoError(t, err)

	assert.Equal(t, "go generics", report.Topic)
	assert.Equal(t, "# Go Generics\n\nreport body", report.Report)
	assert.Equal(t, "llama-3.3-70b", report.Model)
	assert.Equal(t, []string{"https://go.dev/blog/intro-generics"}, report.Sources)
	assert.False(t, report.CreatedAt.IsZero())
	assert.Equal(t, report.Report, streamed)
	assert.Equal(t, []string{"https://go.dev/blog/intro-generics"}, seen)

	// The model sees the findings, not just the topic.
	require.NotNil(t, model.lastTranscript)
	last, ok := model.lastTranscript.Last()
	require.True(t, ok)
	prompt := last.TextContent()
	assert.Contains(t, prompt, "go generics")
	assert.Contains(t, prompt, "https://go.dev/blog/intro-generics")
	assert.Contains(t, prompt, "snippet")
}

func TestGenerate_NoResults(t *testing.T) {
	model := &fakeModel{streamText: "should not run"}
	a := New(model, &fakeSearcher{}, nil, Options{})

	_, err := a.Generate(context.Background(), "obscure topic", nil)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Nil(t, model.lastTranscript)
}

func TestGenerate_SearchError(t *testing.T) {
	a := New(&fakeModel{}, &fakeSearcher{err: errors.New("boom")}, nil, Options{})

	_, err := a.Generate(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGenerateDeep_ToolLoop(t *testing.T) {
	model := &fakeModel{replies: []convo.Message{
		convo.New("model", convo.Assistant,
			convo.ToolCall{ID: "c1", Name: "web_search", Arguments: `{"query":"go generics"}`},
		),
		convo.New("model", convo.Assistant,
			convo.ToolCall{ID: "c2", Name: "fetch_url", Arguments: `{"url":"https://go.dev/blog/intro-generics"}`},
		),
		convo.NewText("model", convo.Assistant, "# Final Report"),
	}}
	searcher := &fakeSearcher{results: []websearch.Result{
		{Title: "Intro", URL: "https://go.dev/blog/intro-generics", Content: "snippet"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://go.dev/blog/intro-generics": "full page text",
	}}

	a := New(model, searcher, fetcher, Options{ModelName: "gpt-4o-mini"})

	var final string
	report, err := a.GenerateDeep(context.Background(), "go generics", func(d string) { final = d })
	require.NoError(t, err)

	assert.Equal(t, "# Final Report", report.Report)
	assert.Equal(t, "# Final Report", final)
	assert.Equal(t, []string{"https://go.dev/blog/intro-generics"}, report.Sources)
	assert.Equal(t, []string{"go generics"}, searcher.queries)
	assert.Len(t, model.lastTools, 2)

	// Tool results were fed back to the model.
	var sawPage bool
	model.lastTranscript.Each(func(_ int, m convo.Message) bool {
		for _, res := range m.ToolResults() {
			if res.Content == "full page text" {
				sawPage = true
			}
		}
		return true
	})
	assert.True(t, sawPage)
}

func TestGenerateDeep_MaxIterations(t *testing.T) {
	loop := convo.New("model", convo.Assistant,
		convo.ToolCall{ID: "c", Name: "web_search", Arguments: `{"query":"x"}`},
	)
	model := &fakeModel{replies: []convo.Message{loop, loop, loop}}
	searcher := &fakeSearcher{results: []websearch.Result{{URL: "https://example.com"}}}

	a := New(model, searcher, nil, Options{MaxIterations: 3})

	_, err := a.GenerateDeep(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, ErrMaxIterations)
}

func TestGenerateDeep_NoFetcherHidesFetchTool(t *testing.T) {
	model := &fakeModel{replies: []convo.Message{
		convo.NewText("model", convo.Assistant, "done"),
	}}

	a := New(model, &fakeSearcher{}, nil, Options{})
	_, err := a.GenerateDeep(context.Background(), "anything", nil)
	require.NoError(t, err)

	require.Len(t, model.lastTools, 1)
	assert.Equal(t, "web_search", model.lastTools[0].Name)
}
