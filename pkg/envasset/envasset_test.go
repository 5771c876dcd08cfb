package envasset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestRender_AllKeysPresent(t *testing.T) {
	out := string(Render(mapEnv(nil)))

	assert.Contains(t, out, "window.__AXLINT_ENV__ = {")
	assert.Contains(t, out, `"OPENAI_API_KEY": ""`)
	assert.Contains(t, out, `"ANTHROPIC_API_KEY": ""`)
	assert.Contains(t, out, `"GOOGLE_API_KEY": ""`)
	assert.True(t, strings.HasSuffix(out, "};\n"))
}

func TestRender_MixedValues(t *testing.T) {
	// Only the OpenAI key is set: its value appears verbatim and the other
	// two are injected as empty strings, not omitted.
	env := mapEnv(map[string]string{"OPENAI_API_KEY": "sk-abc"})

	out := string(Render(env))

	assert.Contains(t, out, `"OPENAI_API_KEY": "sk-abc"`)
	assert.Contains(t, out, `"ANTHROPIC_API_KEY": ""`)
	assert.Contains(t, out, `"GOOGLE_API_KEY": ""`)
}

func TestRender_Idempotent(t *testing.T) {
	env := mapEnv(map[string]string{
		"OPENAI_API_KEY": "sk-abc",
		"GOOGLE_API_KEY": "g-123",
	})

	first := Render(env)
	second := Render(env)

	assert.Equal(t, first, second)
}

func TestRender_DeterministicOrder(t *testing.T) {
	out := string(Render(mapEnv(nil)))

	openai := strings.Index(out, "OPENAI_API_KEY")
	anthropic := strings.Index(out, "ANTHROPIC_API_KEY")
	google := strings.Index(out, "GOOGLE_API_KEY")

	require.True(t, openai >= 0 && anthropic >= 0 && google >= 0)
	assert.Less(t, openai, anthropic)
	assert.Less(t, anthropic, google)
}

func TestRender_EscapesValues(t *testing.T) {
	env := mapEnv(map[string]string{"OPENAI_API_KEY": `sk-"quoted"\slash`})

	out := string(Render(env))

	assert.Contains(t, out, `"OPENAI_API_KEY": "sk-\"quoted\"\\slash"`)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local", "env.js")
	env := mapEnv(map[string]string{"ANTHROPIC_API_KEY": "sk-ant"})

	require.NoError(t, WriteFile(path, env))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(env), data)
}

func TestWriteFile_OverwritesUnconditionally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.js")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o600))

	require.NoError(t, WriteFile(path, mapEnv(nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Equal(t, Render(mapEnv(nil)), data)
}

func TestWriteFile_RepeatedRunsByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.js")
	env := mapEnv(map[string]string{"GOOGLE_API_KEY": "g-key"})

	require.NoError(t, WriteFile(path, env))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, env))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteFile_UnwritablePath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := WriteFile(filepath.Join(dir, "env.js"), mapEnv(nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "envasset")
}
