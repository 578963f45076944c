// Package tallydir encapsulates all path knowledge for the .tally/ project
// directory. It provides a Dir value object with accessors for the config
// file, key scripts and the log file.
package tallydir

import (
	"os"
	"path/filepath"
	"sort"
)

// Dir is a value object that resolves paths within a .tally/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use Bootstrap to create the layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the .tally/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// ScriptsDir returns the path to the key scripts directory.
func (d Dir) ScriptsDir() string { return filepath.Join(d.root, "scripts") }

// LogPath returns the default log file path used by the interactive UI.
func (d Dir) LogPath() string { return filepath.Join(d.root, "tally.log") }

// Scripts returns sorted paths of all *.yaml files in the scripts directory.
// Returns nil if the directory does not exist.
func (d Dir) Scripts() []string {
	matches, err := filepath.Glob(filepath.Join(d.ScriptsDir(), "*.yaml"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	sort.Strings(matches)

	return matches
}

// Exists reports whether the .tally/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
