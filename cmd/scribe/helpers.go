package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// thinkingMessages are displayed while a research run is in flight.
var thinkingMessages = []string{
	"Searching the web...",
	"Reading sources...",
	"Cross-checking claims...",
	"Collecting citations...",
	"Drafting sections...",
	"Organizing findings...",
	"Following references...",
	"Sifting search results...",
	"Weighing the evidence...",
	"Polishing the summary...",
}

// mdRenderer renders markdown to terminal-formatted output.
var mdRenderer *glamour.TermRenderer

func initMarkdownRenderer(width int) {
	if width <= 0 {
		width = terminalWidth()
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	mdRenderer = r
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || w > 120 {
		return 100
	}
	return w
}

// renderMarkdown converts markdown text to terminal-formatted output.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// truncate returns s shortened to at most n display cells, with "..."
// appended if truncated. Newlines are replaced with spaces for single-line
// display.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "...")
}

// fmtTokens formats a token count for display, using k/M suffixes.
func fmtTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// fmtDuration formats a duration for display.
func fmtDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	min := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", min, sec)
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// randomThinkingMessage returns a random thinking message.
func randomThinkingMessage() string {
	return thinkingMessages[rand.IntN(len(thinkingMessages))] //nolint:gosec // cosmetic randomness
}

// resolveConfigPath returns the config file to use. Priority:
// 1. Explicit --config flag (non-empty)
// 2. .scribe/config.yaml (if it exists)
// 3. scribe.yaml (fallback)
func resolveConfigPath(explicit, scribeDirPath string) string {
	if explicit != "" {
		return explicit
	}

	scribeConfig := filepath.Join(scribeDirPath, "config.yaml")
	if _, err := os.Stat(scribeConfig); err == nil {
		return scribeConfig
	}

	return "scribe.yaml"
}
