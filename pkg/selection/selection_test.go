package selection

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/credential"
)

func emptyEnv(string) string { return "" }

func newSelector(t *testing.T, bag map[string]string) (*Selector, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "selection.json")
	sel := &Selector{
		Credentials: &credential.Resolver{Bag: credential.NewBag(bag), Getenv: emptyEnv},
		Store:       NewStore(path, nil),
	}

	return sel, path
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "selection.json"), nil)

	sel, ok := s.Load()

	assert.False(t, ok)
	assert.True(t, sel.IsZero())
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model": "gpt-4o", "provider":`), 0o600))

	s := NewStore(path, nil)
	sel, ok := s.Load()

	// Fail open: malformed data reads as "no prior selection".
	assert.False(t, ok)
	assert.True(t, sel.IsZero())
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	s := NewStore(path, nil)

	saved := Selected{Model: "gemini-1.5-pro", Provider: credential.Google}
	require.NoError(t, s.Save(saved))

	// A fresh Store over the same file must read back identical fields.
	loaded, ok := NewStore(path, nil).Load()
	require.True(t, ok)
	assert.Equal(t, saved, loaded)

	// The on-disk form is the fixed two-field JSON object.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, map[string]string{"model": "gemini-1.5-pro", "provider": "google"}, raw)
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	s := NewStore(path, nil)

	require.NoError(t, s.Save(Selected{Model: "gpt-4o", Provider: credential.OpenAI}))
	require.NoError(t, s.Save(Selected{Model: "gpt-4o-mini", Provider: credential.OpenAI}))

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", loaded.Model)
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local", "selection.json")
	s := NewStore(path, nil)

	require.NoError(t, s.Save(Selected{Model: "gpt-4o", Provider: credential.OpenAI}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSelector_Select_Success(t *testing.T) {
	sel, path := newSelector(t, map[string]string{"ANTHROPIC_API_KEY": "sk-ant"})

	var callbacks []Selected
	sel.OnSelect = func(s Selected) { callbacks = append(callbacks, s) }

	got, err := sel.Select("claude-sonnet-4-20250514")

	require.NoError(t, err)
	assert.Equal(t, Selected{Model: "claude-sonnet-4-20250514", Provider: credential.Anthropic}, got)

	// Callback fired exactly once with the persisted value.
	require.Len(t, callbacks, 1)
	assert.Equal(t, got, callbacks[0])

	// Selection is on disk.
	loaded, ok := NewStore(path, nil).Load()
	require.True(t, ok)
	assert.Equal(t, got, loaded)
}

func TestSelector_Select_NoCredential(t *testing.T) {
	sel, path := newSelector(t, nil)

	called := false
	sel.OnSelect = func(Selected) { called = true }

	_, err := sel.Select("gpt-4o")

	var noCred *NoCredentialError
	require.ErrorAs(t, err, &noCred)
	assert.Equal(t, credential.OpenAI, noCred.Provider)
	assert.Equal(t, "OPENAI_API_KEY", noCred.EnvVar)
	assert.Contains(t, noCred.Error(), "OPENAI_API_KEY")

	// Storage untouched, callback never invoked.
	assert.False(t, called)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSelector_Select_NoCredential_PerProvider(t *testing.T) {
	tests := []struct {
		model  string
		envVar string
	}{
		{"gpt-4o", "OPENAI_API_KEY"},
		{"claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
		{"gemini-2.0-flash", "GOOGLE_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			sel, _ := newSelector(t, nil)

			_, err := sel.Select(tt.model)

			var noCred *NoCredentialError
			require.ErrorAs(t, err, &noCred)
			assert.Equal(t, tt.envVar, noCred.EnvVar)
		})
	}
}

func TestSelector_Select_AlternateCredentialSuffices(t *testing.T) {
	// OPENAI_KEY (alternate convention) alone unlocks OpenAI models.
	sel, _ := newSelector(t, map[string]string{"OPENAI_KEY": "sk-alt"})

	_, err := sel.Select("gpt-4o-mini")

	assert.NoError(t, err)
}

func TestSelector_Select_UnknownModel(t *testing.T) {
	sel, _ := newSelector(t, map[string]string{"OPENAI_API_KEY": "sk"})

	_, err := sel.Select("gpt-99")

	require.Error(t, err)
	var noCred *NoCredentialError
	assert.False(t, errors.As(err, &noCred))
}

func TestSelector_Select_DoesNotOverwriteOnRejection(t *testing.T) {
	sel, _ := newSelector(t, map[string]string{"OPENAI_API_KEY": "sk"})
	_, err := sel.Select("gpt-4o")
	require.NoError(t, err)

	// Remove the key and try an Anthropic model: rejection must keep the
	// previous selection intact.
	sel.Credentials.Bag = nil
	_, err = sel.Select("claude-sonnet-4-20250514")
	require.Error(t, err)

	loaded, ok := sel.Store.Load()
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", loaded.Model)
}

func TestSelector_Current_Default(t *testing.T) {
	sel, _ := newSelector(t, nil)

	assert.Equal(t, catalog.Default().ID, sel.Current().ID)
}

func TestSelector_Current_StoredSelection(t *testing.T) {
	sel, _ := newSelector(t, map[string]string{"GOOGLE_API_KEY": "g"})
	_, err := sel.Select("gemini-2.0-flash")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", sel.Current().ID)
}

func TestSelector_Current_UnknownStoredModel(t *testing.T) {
	sel, path := newSelector(t, nil)
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"retired-model","provider":"openai"}`), 0o600))

	assert.Equal(t, catalog.Default().ID, sel.Current().ID)
}

func TestSelector_Current_ProviderMismatch(t *testing.T) {
	// A stored provider that disagrees with the catalog is treated as
	// malformed data, not trusted.
	sel, path := newSelector(t, nil)
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"gpt-4o","provider":"google"}`), 0o600))

	assert.Equal(t, catalog.Default().ID, sel.Current().ID)
}

func TestSelector_Selectable(t *testing.T) {
	sel, _ := newSelector(t, map[string]string{"OPENAI_API_KEY": "sk-abc"})

	openai, ok := catalog.ByID("gpt-4o")
	require.True(t, ok)
	claude, ok := catalog.ByID("claude-sonnet-4-20250514")
	require.True(t, ok)

	assert.True(t, sel.Selectable(openai))
	assert.False(t, sel.Selectable(claude))
}
