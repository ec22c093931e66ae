package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/modelclient"
)

// runOnce researches a single topic without the TUI: deltas stream to stdout
// as they arrive, then a status line goes to stderr.
func runOnce(ctx context.Context, eng *engine.Engine, provider, topic string, deep bool) error {
	start := time.Now()

	report, err := eng.Research(ctx, topic, engine.ResearchOptions{
		Provider: provider,
		Deep:     &deep,
		OnDelta:  func(d string) { fmt.Print(d) },
	})
	if err != nil {
		return err
	}
	fmt.Println()

	status := fmt.Sprintf("saved %s (%s)", report.ID, fmtDuration(time.Since(start)))
	if m, _, err := eng.Model(provider); err == nil {
		if ur, ok := m.(modelclient.UsageReporter); ok {
			status += fmt.Sprintf(", %s tokens", fmtTokens(ur.UsageTracker().Total().Total()))
		}
	}
	fmt.Fprintln(os.Stderr, status)

	return nil
}
