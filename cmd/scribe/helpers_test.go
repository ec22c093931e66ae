package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "multi line", truncate("multi\nline", 20))

	got := truncate("a long topic about generics", 10)
	assert.LessOrEqual(t, len(got), 13)
	assert.Contains(t, got, "...")

	// Wide runes count by display cells, not bytes.
	got = truncate("日本語のトピック", 8)
	assert.Contains(t, got, "...")
}

func TestFmtTokens(t *testing.T) {
	assert.Equal(t, "512", fmtTokens(512))
	assert.Equal(t, "1.5k", fmtTokens(1500))
	assert.Equal(t, "2.0M", fmtTokens(2_000_000))
}

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "3.5s", fmtDuration(3500*time.Millisecond))
	assert.Equal(t, "1m 30s", fmtDuration(90*time.Second))
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", resolveConfigPath("/explicit.yaml", ".scribe"))

	tmp := t.TempDir()
	dir := filepath.Join(tmp, ".scribe")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("providers: []"), 0o600))

	assert.Equal(t, filepath.Join(dir, "config.yaml"), resolveConfigPath("", dir))
	assert.Equal(t, "scribe.yaml", resolveConfigPath("", filepath.Join(tmp, "missing")))
}

func TestTailLines(t *testing.T) {
	assert.Equal(t, "a\nb", tailLines("a\nb", 5))
	assert.Equal(t, "d\ne", tailLines("a\nb\nc\nd\ne\n", 2))
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestRandomThinkingMessage(t *testing.T) {
	assert.NotEmpty(t, randomThinkingMessage())
}
