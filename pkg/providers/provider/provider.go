// Package provider builds completion adapters from a provider name,
// a resolved credential, and optional transport overrides. The three
// supported backends register themselves as defaults; tests swap in fake
// factories through Register.
package provider

import (
	"fmt"
	"sync"

	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/modeladapter"
	"github.com/seojunpark/axlint/pkg/providers/anthropic"
	"github.com/seojunpark/axlint/pkg/providers/gemini"
	"github.com/seojunpark/axlint/pkg/providers/openai"
)

// Config carries everything a factory needs to build an adapter. APIKey
// comes from the credential resolver; the rest are optional overrides
// from config.yaml.
type Config struct {
	Provider    credential.Provider
	APIKey      string
	Model       string
	BaseURL     string  // Empty means the provider's public endpoint.
	MaxTokens   int     // 0 keeps the adapter default.
	Temperature float64 // 0 keeps the adapter default.
}

// Completer is the completion interface built adapters satisfy.
type Completer = modeladapter.Completer

// Factory creates a Completer from a Config.
type Factory func(cfg Config) (Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[credential.Provider]Factory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[credential.OpenAI] = newOpenAI
		factories[credential.Anthropic] = newAnthropic
		factories[credential.Google] = newGemini
	})
}

// Register registers a custom factory under the given provider name,
// replacing the default.
func Register(p credential.Provider, factory Factory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[p] = factory
}

// Build creates a Completer for the provider named in cfg.
func Build(cfg Config) (Completer, error) {
	ensureDefaults()

	factoryMu.RLock()
	factory, ok := factories[cfg.Provider]
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider: unknown provider %q", cfg.Provider)
	}

	return factory(cfg)
}

func newOpenAI(cfg Config) (modeladapter.Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	a := openai.New(baseURL, cfg.APIKey, cfg.Model)
	applyOverrides(&a.ModelAdapter, cfg)

	return a, nil
}

func newAnthropic(cfg Config) (modeladapter.Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	a := anthropic.New(baseURL, cfg.APIKey, cfg.Model)
	applyOverrides(&a.ModelAdapter, cfg)

	return a, nil
}

func newGemini(cfg Config) (modeladapter.Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	a := gemini.New(baseURL, cfg.APIKey, cfg.Model)
	applyOverrides(&a.ModelAdapter, cfg)

	return a, nil
}

func applyOverrides(a *modeladapter.ModelAdapter, cfg Config) {
	if cfg.MaxTokens > 0 {
		a.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature != 0 {
		a.Temperature = cfg.Temperature
	}
}
