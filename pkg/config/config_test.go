package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojunpark/axlint/pkg/credential"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
scan:
  min_confidence: 0.6
serve:
  addr: 127.0.0.1:9000
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.6, cfg.Scan.MinConfidence)
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
	// Fields absent from the file keep defaults.
	assert.Equal(t, []string{"lib/**/*.dart"}, cfg.Scan.Include)
	assert.Equal(t, "markdown", cfg.Report.Format)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("AXLINT_TEST_KEY", "sk-from-env")

	path := writeConfig(t, `
providers:
  - name: openai
    api_key: ${AXLINT_TEST_KEY}
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	p, ok := cfg.Provider(credential.OpenAI)
	require.True(t, ok)
	assert.Equal(t, "sk-from-env", p.APIKey)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "scan: [not: a: mapping")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(*Config) {},
		},
		{
			name:    "confidence out of range",
			mutate:  func(c *Config) { c.Scan.MinConfidence = 1.5 },
			wantErr: "min_confidence",
		},
		{
			name:    "bad report format",
			mutate:  func(c *Config) { c.Report.Format = "pdf" },
			wantErr: "report.format",
		},
		{
			name:    "invalid include glob",
			mutate:  func(c *Config) { c.Scan.Include = []string{"lib/[.dart"} },
			wantErr: "invalid glob pattern",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Providers = []ProviderConfig{{Name: "mistral"}} },
			wantErr: `unknown provider "mistral"`,
		},
		{
			name: "duplicate provider",
			mutate: func(c *Config) {
				c.Providers = []ProviderConfig{{Name: "openai"}, {Name: "openai"}}
			},
			wantErr: "duplicate provider",
		},
		{
			name:    "empty provider name",
			mutate:  func(c *Config) { c.Providers = []ProviderConfig{{BaseURL: "http://x"}} },
			wantErr: "provider name is required",
		},
		{
			name: "negative max tokens",
			mutate: func(c *Config) {
				c.Providers = []ProviderConfig{{Name: "google", MaxTokens: -1}}
			},
			wantErr: "max_tokens",
		},
		{
			name:    "missing serve addr",
			mutate:  func(c *Config) { c.Serve.Addr = "" },
			wantErr: "serve.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".axlint", "config.yaml")

	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Providers = []ProviderConfig{{Name: "anthropic", MaxTokens: 2048}}

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
