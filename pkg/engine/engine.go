// Package engine is the composition root. It assembles providers, the search
// backend, the page fetcher, and the report store from configuration and
// exposes research runs through a frontend-agnostic API.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/scribehq/scribe/pkg/reports"
	"github.com/scribehq/scribe/pkg/research"
	"github.com/scribehq/scribe/pkg/scribedir"
	"github.com/scribehq/scribe/pkg/webfetch"
	"github.com/scribehq/scribe/pkg/websearch"
)

// Engine wires all components together.
type Engine struct {
	cfg      Config
	events   *EventBus
	models   map[string]research.Model
	searcher websearch.Searcher
	fetcher  *webfetch.Fetcher
	store    *reports.Store

	mu     sync.Mutex
	runs   map[string]*Run
	nextID int
}

// New creates an Engine from the given configuration. It validates the
// config, builds provider adapters and the search backend, and opens the
// report store under the work directory.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir := scribedir.New(cfg.ScribeDir)
	if err := scribedir.EnsureStructure(dir); err != nil {
		return nil, err
	}

	store, err := reports.NewStore(dir.ReportsDir())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		events:   NewEventBus(),
		models:   make(map[string]research.Model, len(cfg.Providers)),
		searcher: buildSearcher(cfg.Search),
		fetcher:  webfetch.New(nil),
		store:    store,
		runs:     make(map[string]*Run),
	}

	for _, pc := range cfg.Providers {
		m, err := buildModel(pc)
		if err != nil {
			return nil, fmt.Errorf("engine: provider %q: %w", pc.Name, err)
		}
		e.models[pc.Name] = m
	}

	return e, nil
}

func buildSearcher(cfg SearchConfig) websearch.Searcher {
	backend := cfg.Backend
	if backend == "" {
		if cfg.APIKey != "" {
			backend = "tavily"
		} else {
			backend = "duckduckgo"
		}
	}

	newTavily := func() *websearch.Tavily {
		tv := websearch.NewTavily(cfg.APIKey, cfg.Depth, websearch.WithQPS(cfg.QPS))
		if cfg.MaxResults > 0 {
			tv.MaxResults = cfg.MaxResults
		}
		return tv
	}

	switch backend {
	case "tavily":
		return newTavily()
	case "multi":
		return websearch.NewMulti(newTavily(), websearch.NewDuckDuckGo())
	default:
		d := websearch.NewDuckDuckGo()
		if cfg.MaxResults > 0 {
			d.MaxResults = cfg.MaxResults
		}
		return d
	}
}

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Addr returns the configured HTTP listen address, falling back to
// DefaultAddr.
func (e *Engine) Addr() string {
	if e.cfg.Server.Addr != "" {
		return e.cfg.Server.Addr
	}
	return DefaultAddr
}

// Store returns the report store.
func (e *Engine) Store() *reports.Store { return e.store }

// Searcher returns the configured search backend.
func (e *Engine) Searcher() websearch.Searcher { return e.searcher }

// SetSearcher replaces the search backend. Frontends use it to inject custom
// or stub backends.
func (e *Engine) SetSearcher(s websearch.Searcher) { e.searcher = s }

// Model returns a configured provider model by name. An empty name resolves
// to the default provider, falling back to the first configured one.
func (e *Engine) Model(name string) (research.Model, string, error) {
	if name == "" {
		name = e.cfg.DefaultProvider
	}
	if name == "" && len(e.cfg.Providers) > 0 {
		name = e.cfg.Providers[0].Name
	}

	m, ok := e.models[name]
	if !ok {
		return nil, "", fmt.Errorf("engine: provider %q not found", name)
	}

	return m, name, nil
}

// Providers returns the configured provider names, in config order.
func (e *Engine) Providers() []string {
	names := make([]string, 0, len(e.cfg.Providers))
	for _, p := range e.cfg.Providers {
		names = append(names, p.Name)
	}
	return names
}

// ResearchOptions selects the provider and mode for one run.
type ResearchOptions struct {
	// Provider names a configured provider. Empty means the default.
	Provider string
	// Deep enables the tool-driven research loop. The zero value follows
	// the config's research mode.
	Deep *bool
	// OnDelta receives report fragments in addition to the event bus.
	OnDelta func(string)
}

// Research runs one research task to completion: search, synthesis, and
// persistence. Progress is published on the event bus. The saved report is
// returned.
func (e *Engine) Research(ctx context.Context, topic string, opts ResearchOptions) (research.Report, error) {
	run := e.newRun(topic)
	report, err := e.research(ctx, run, topic, opts)
	run.finish(report, err)

	return report, err
}

// StartResearch launches Research in a goroutine and returns a Run handle
// that can be looked up by ID and waited on.
func (e *Engine) StartResearch(ctx context.Context, topic string, opts ResearchOptions) *Run {
	run := e.newRun(topic)

	go func() {
		report, err := e.research(ctx, run, topic, opts)
		run.finish(report, err)
	}()

	return run
}

// Run returns an existing run by ID.
func (e *Engine) Run(id string) (*Run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.runs[id]
	return r, ok
}

func (e *Engine) newRun(topic string) *Run {
	e.mu.Lock()
	e.nextID++
	id := fmt.Sprintf("run-%d", e.nextID)
	e.mu.Unlock()

	run := &Run{
		ID:        id,
		Topic:     topic,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}

	e.mu.Lock()
	e.runs[id] = run
	e.mu.Unlock()

	return run
}

func (e *Engine) research(ctx context.Context, run *Run, topic string, opts ResearchOptions) (research.Report, error) {
	model, providerName, err := e.Model(opts.Provider)
	if err != nil {
		e.publish(EventError, run, err)
		return research.Report{}, err
	}

	modelName := e.modelName(providerName)

	assistant := research.New(model, e.searcher, e.fetcher, research.Options{
		ModelName:     modelName,
		MaxIterations: e.cfg.Research.MaxIterations,
		OnSource: func(r websearch.Result) {
			e.publish(EventSourceFound, run, r)
		},
	})

	onDelta := func(d string) {
		e.publish(EventReportDelta, run, d)
		if opts.OnDelta != nil {
			opts.OnDelta(d)
		}
	}

	e.publish(EventResearchStart, run, modelName)
	e.publish(EventSearchStarted, run, nil)

	deep := e.cfg.Research.Mode == "deep"
	if opts.Deep != nil {
		deep = *opts.Deep
	}

	var report research.Report
	if deep {
		report, err = assistant.GenerateDeep(ctx, topic, onDelta)
	} else {
		report, err = assistant.Generate(ctx, topic, onDelta)
	}
	if err != nil {
		e.publish(EventError, run, err)
		e.publish(EventResearchEnd, run, nil)
		return research.Report{}, err
	}

	saved, err := e.store.Save(report)
	if err != nil {
		e.publish(EventError, run, err)
		e.publish(EventResearchEnd, run, nil)
		return research.Report{}, err
	}

	e.publish(EventReportSaved, run, saved)
	e.publish(EventResearchEnd, run, nil)

	return saved, nil
}

func (e *Engine) modelName(providerName string) string {
	for _, p := range e.cfg.Providers {
		if p.Name == providerName {
			if p.Model != "" {
				return p.Model
			}
			return p.Name
		}
	}
	return providerName
}

func (e *Engine) publish(kind EventKind, run *Run, data any) {
	e.events.Publish(Event{
		Kind:      kind,
		RunID:     run.ID,
		Topic:     run.Topic,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// Run tracks one research task from start to finish.
type Run struct {
	ID        string
	Topic     string
	StartedAt time.Time

	done chan struct{}

	mu     sync.Mutex
	report research.Report
	err    error
}

// Done is closed when the run finishes.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes or ctx is cancelled, then returns the
// run's result.
func (r *Run) Wait(ctx context.Context) (research.Report, error) {
	select {
	case <-ctx.Done():
		return research.Report{}, ctx.Err()
	case <-r.done:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.report, r.err
}

func (r *Run) finish(report research.Report, err error) {
	r.mu.Lock()
	r.report = report
	r.err = err
	r.mu.Unlock()

	close(r.done)
}
