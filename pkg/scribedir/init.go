package scribedir

import (
	"fmt"
	"os"
)

// Reports may hold drafts the user has not published, so keep them out of
// version control by default.
const gitignoreContent = "reports/\n"

// EnsureStructure creates the reports/ directory and .gitignore file if they
// are missing. It is safe to call multiple times (idempotent). It also
// creates the .scribe/ root itself when absent.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.ReportsDir(), 0o750); err != nil {
		return fmt.Errorf("scribedir: create reports dir: %w", err)
	}

	if err := ensureGitignore(d); err != nil {
		return fmt.Errorf("scribedir: gitignore: %w", err)
	}

	return nil
}

// BootstrapWithConfig creates the full directory layout and writes the given
// config YAML. An existing config file is left untouched.
func BootstrapWithConfig(d Dir, configYAML []byte) error {
	if err := EnsureStructure(d); err != nil {
		return err
	}

	if _, err := os.Stat(d.ConfigPath()); err == nil {
		return nil
	}

	if err := os.WriteFile(d.ConfigPath(), configYAML, 0o600); err != nil {
		return fmt.Errorf("scribedir: write config: %w", err)
	}

	return nil
}

// ensureGitignore creates the .gitignore file if it does not exist.
func ensureGitignore(d Dir) error {
	path := d.GitignorePath()

	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}

	return os.WriteFile(path, []byte(gitignoreContent), 0o600)
}
