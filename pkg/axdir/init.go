package axdir

import (
	"fmt"
	"os"
)

const gitignoreContent = "local/\n"

// Bootstrap creates the .axlint/ root directory with its full layout. It is
// idempotent: existing files and directories are left untouched. The config
// file itself is written by the init wizard, not here.
func Bootstrap(d Dir) error {
	if err := os.MkdirAll(d.Root(), 0o750); err != nil {
		return fmt.Errorf("axdir: create root: %w", err)
	}

	return EnsureStructure(d)
}

// EnsureStructure creates the local/ and rules/ directories and the
// .gitignore file if they are missing. It is safe to call multiple times
// (idempotent).
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return fmt.Errorf("axdir: create local dir: %w", err)
	}

	if err := os.MkdirAll(d.RulesDir(), 0o750); err != nil {
		return fmt.Errorf("axdir: create rules dir: %w", err)
	}

	if err := ensureGitignore(d); err != nil {
		return fmt.Errorf("axdir: gitignore: %w", err)
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
