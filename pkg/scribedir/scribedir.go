// Package scribedir encapsulates all path knowledge for the .scribe/ work
// directory. It provides a Dir value object with accessors for the config
// file and the reports directory.
package scribedir

import (
	"os"
	"path/filepath"
)

// DirName is the work directory name created next to the user's project.
const DirName = ".scribe"

// Dir is a value object that resolves paths within a .scribe/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// FromWorkdir returns the Dir for a project directory, i.e. dir/.scribe.
func FromWorkdir(dir string) Dir {
	return New(filepath.Join(dir, DirName))
}

// Root returns the absolute path to the .scribe/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// ReportsDir returns the path to the saved reports directory.
func (d Dir) ReportsDir() string { return filepath.Join(d.root, "reports") }

// GitignorePath returns the path to the .gitignore file inside .scribe/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the .scribe/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
