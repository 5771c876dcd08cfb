package rules

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	set := Default()

	assert.Equal(t, []string{"Go back", "Back", "Navigate up"}, set.Resources["back"])
	assert.Equal(t, "Button", set.Classes["IconButton"][0])
	assert.Len(t, set.Patterns, 13)
	assert.Equal(t, 1832, set.Actions["go"])
	assert.Empty(t, set.Apps)
}

func TestSet_Merge(t *testing.T) {
	over := Set{
		Resources: map[string][]string{"back": {"Return"}},
		Apps:      map[string][]string{"shop_app": {"Shop action"}},
	}

	merged := Default().Merge(over)

	assert.Equal(t, []string{"Return"}, merged.Resources["back"])
	assert.Equal(t, []string{"Search", "Open search", "Find"}, merged.Resources["search"])
	assert.Equal(t, []string{"Shop action"}, merged.Apps["shop_app"])

	// Merge copies; the embedded defaults stay intact.
	assert.Equal(t, []string{"Go back", "Back", "Navigate up"}, Default().Resources["back"])
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resource_id_rules.json"),
		[]byte(`{"back": ["Return"]}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("not a rule file"), 0o600))

	set, err := LoadDir(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"Return"}, set.Resources["back"])
	assert.Empty(t, set.Classes)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDir_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "class_name_rules.json"),
		[]byte(`{`), 0o600))

	_, err := LoadDir(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoad_MissingDirFallsBackToDefaults(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "rules"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Go back", "Back", "Navigate up"}, set.Resources["back"])
}

func TestLoad_MergesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app_specific_rules.json"),
		[]byte(`{"shop_app": ["Open shop item"]}`), 0o600))

	set, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"Open shop item"}, set.Apps["shop_app"])
	assert.NotEmpty(t, set.Resources)
}
