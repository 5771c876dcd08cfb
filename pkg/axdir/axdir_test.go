package axdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/project/.axlint")

	assert.Equal(t, "/project/.axlint", d.Root())
	assert.Equal(t, "/project/.axlint/config.yaml", d.ConfigPath())
	assert.Equal(t, "/project/.axlint/rules", d.RulesDir())
	assert.Equal(t, "/project/.axlint/local", d.LocalDir())
	assert.Equal(t, "/project/.axlint/local/selection.json", d.SelectionPath())
	assert.Equal(t, "/project/.axlint/local/env.js", d.EnvAssetPath())
	assert.Equal(t, "/project/.axlint/local/history.duckdb", d.HistoryPath())
	assert.Equal(t, "/project/.axlint/.gitignore", d.GitignorePath())
}

func TestForProject(t *testing.T) {
	d := ForProject("/project")

	assert.Equal(t, "/project/.axlint", d.Root())
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	d := New(filepath.Join(tmp, "missing"))
	assert.False(t, d.Exists())

	d = New(tmp)
	assert.True(t, d.Exists())
}

func TestDir_RuleFiles(t *testing.T) {
	tmp := t.TempDir()
	d := New(tmp)
	require.NoError(t, EnsureStructure(d))

	require.NoError(t, os.WriteFile(filepath.Join(d.RulesDir(), "resource_id_rules.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.RulesDir(), "action_rules.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.RulesDir(), "readme.txt"), []byte("not a rule"), 0o600))

	files := d.RuleFiles()

	assert.Len(t, files, 2)
	assert.Equal(t, filepath.Join(d.RulesDir(), "action_rules.json"), files[0])
	assert.Equal(t, filepath.Join(d.RulesDir(), "resource_id_rules.json"), files[1])
}

func TestDir_RuleFiles_NonExistent(t *testing.T) {
	d := New("/nonexistent/path/.axlint")

	assert.Nil(t, d.RuleFiles())
}

func TestEnsureStructure(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, ".axlint")
	require.NoError(t, os.Mkdir(root, 0o750))

	d := New(root)
	require.NoError(t, EnsureStructure(d))

	// local/ and rules/ should exist.
	info, err := os.Stat(d.LocalDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = os.Stat(d.RulesDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// .gitignore should exist with correct content.
	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, "local/\n", string(data))
}

func TestEnsureStructure_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, ".axlint")
	require.NoError(t, os.Mkdir(root, 0o750))

	d := New(root)
	require.NoError(t, EnsureStructure(d))

	// Write custom content to .gitignore.
	custom := "local/\ncustom-entry\n"
	require.NoError(t, os.WriteFile(d.GitignorePath(), []byte(custom), 0o600))

	// Second call should NOT overwrite the custom .gitignore.
	require.NoError(t, EnsureStructure(d))

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestBootstrap(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, ".axlint")

	d := New(root)
	require.NoError(t, Bootstrap(d))

	assert.True(t, d.Exists())

	info, err := os.Stat(d.LocalDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = os.Stat(d.RulesDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(d.GitignorePath())
	require.NoError(t, err)
}

func TestMigrateSelection(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, ".axlint")
	require.NoError(t, os.Mkdir(root, 0o750))

	d := New(root)
	require.NoError(t, EnsureStructure(d))

	// Create old-style selection file.
	oldPath := filepath.Join(root, "selection.json")
	selData := `{"model":"gpt-4o","provider":"openai"}`
	require.NoError(t, os.WriteFile(oldPath, []byte(selData), 0o600))

	require.NoError(t, MigrateSelection(d))

	// Old file should be gone.
	_, err := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	// New file should exist with same content.
	data, err := os.ReadFile(d.SelectionPath())
	require.NoError(t, err)
	assert.Equal(t, selData, string(data))
}

func TestMigrateSelection_NoOldFile(t *testing.T) {
	tmp := t.TempDir()
	d := New(filepath.Join(tmp, ".axlint"))

	// Should be a no-op.
	assert.NoError(t, MigrateSelection(d))
}

func TestMigrateSelection_NewFileExists(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, ".axlint")
	require.NoError(t, os.Mkdir(root, 0o750))

	d := New(root)
	require.NoError(t, EnsureStructure(d))

	oldData := `{"model":"old","provider":"openai"}`
	newData := `{"model":"new","provider":"openai"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "selection.json"), []byte(oldData), 0o600))
	require.NoError(t, os.WriteFile(d.SelectionPath(), []byte(newData), 0o600))

	require.NoError(t, MigrateSelection(d))

	// New file should be unchanged (not overwritten).
	data, err := os.ReadFile(d.SelectionPath())
	require.NoError(t, err)
	assert.Equal(t, newData, string(data))
}
