package scribedir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/project/.scribe")

	assert.Equal(t, "/project/.scribe", d.Root())
	assert.Equal(t, "/project/.scribe/config.yaml", d.ConfigPath())
	assert.Equal(t, "/project/.scribe/reports", d.ReportsDir())
	assert.Equal(t, "/project/.scribe/.gitignore", d.GitignorePath())
}

func TestFromWorkdir(t *testing.T) {
	d := FromWorkdir("/project")
	assert.Equal(t, "/project/.scribe", d.Root())
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	d := New(filepath.Join(tmp, "missing"))
	assert.False(t, d.Exists())

	d = New(tmp)
	assert.True(t, d.Exists())
}

func TestEnsureStructure(t *testing.T) {
	d := FromWorkdir(t.TempDir())
	require.NoError(t, EnsureStructure(d))

	info, err := os.Stat(d.ReportsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, "reports/\n", string(data))
}

func TestBootstrapWithConfig(t *testing.T) {
	d := FromWorkdir(t.TempDir())

	require.NoError(t, BootstrapWithConfig(d, []byte("providers: []\n")))

	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "providers: []\n", string(data))

	// A second bootstrap must not overwrite the existing config.
	require.NoError(t, BootstrapWithConfig(d, []byte("providers: [other]\n")))

	data, err = os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "providers: []\n", string(data))
}

func TestEnsureStructure_Idempotent(t *testing.T) {
	d := FromWorkdir(t.TempDir())
	require.NoError(t, EnsureStructure(d))

	custom := "reports/\ncustom-entry\n"
	require.NoError(t, os.WriteFile(d.GitignorePath(), []byte(custom), 0o600))

	require.NoError(t, EnsureStructure(d))

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}
