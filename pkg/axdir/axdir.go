// Package axdir encapsulates all path knowledge for the .axlint/ project
// directory. It provides a Dir value object with accessors for the config
// file, the custom rules directory, and local runtime state (model
// selection, env asset, scan history).
package axdir

import (
	"os"
	"path/filepath"
	"sort"
)

// DirName is the name of the project dot-directory.
const DirName = ".axlint"

// Dir is a value object that resolves paths within a .axlint/ directory.
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

// ForProject returns the Dir for the .axlint/ directory inside the given
// project root.
func ForProject(projectRoot string) Dir {
	return New(filepath.Join(projectRoot, DirName))
}

// Root returns the absolute path to the .axlint/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// RulesDir returns the path to the custom label-rules directory. Rule files
// placed there are merged over the embedded defaults.
func (d Dir) RulesDir() string { return filepath.Join(d.root, "rules") }

// LocalDir returns the path to the local (gitignored) runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// SelectionPath returns the path to the persisted model selection inside local/.
func (d Dir) SelectionPath() string { return filepath.Join(d.root, "local", "selection.json") }

// EnvAssetPath returns the path to the generated env script asset inside local/.
func (d Dir) EnvAssetPath() string { return filepath.Join(d.root, "local", "env.js") }

// HistoryPath returns the path to the scan history database inside local/.
func (d Dir) HistoryPath() string { return filepath.Join(d.root, "local", "history.duckdb") }

// GitignorePath returns the path to the .gitignore file inside .axlint/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// RuleFiles returns sorted paths of all *.json files in the rules directory.
// Returns nil if the directory does not exist or holds no rule files.
func (d Dir) RuleFiles() []string {
	pattern := filepath.Join(d.RulesDir(), "*.json")

	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return nil
	}

	sort.Strings(matches)

	return matches
}

// Exists reports whether the .axlint/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
