// Package catalog holds the static descriptors of the selectable LLM
// models. The set is fixed at compile time and deliberately not
// user-extensible: the selection UI, the gating logic, and the provider
// adapters all assume these exact identifiers.
package catalog

import "github.com/seojunpark/axlint/pkg/credential"

// Model describes one selectable LLM.
type Model struct {
	// ID is the provider-side model identifier sent on API calls.
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// Provider owns the model and determines which credential gates it.
	Provider credential.Provider `json:"provider"`
	// Description is a one-line hint shown in pickers.
	Description string `json:"description"`
}

// models is ordered; the first entry is the default.
var models = []Model{
	{
		ID:          "gpt-4o",
		Name:        "GPT-4o",
		Provider:    credential.OpenAI,
		Description: "Flagship OpenAI model, strongest fix suggestions",
	},
	{
		ID:          "gpt-4o-mini",
		Name:        "GPT-4o mini",
		Provider:    credential.OpenAI,
		Description: "Fast and inexpensive, good for quick passes",
	},
	{
		ID:          "claude-sonnet-4-20250514",
		Name:        "Claude Sonnet 4",
		Provider:    credential.Anthropic,
		Description: "Strong Dart/Flutter code reasoning",
	},
	{
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Provider:    credential.Google,
		Description: "Low latency, suited to watch mode",
	},
	{
		ID:          "gemini-1.5-pro",
		Name:        "Gemini 1.5 Pro",
		Provider:    credential.Google,
		Description: "Long context for large widget trees",
	},
}

// Models returns all model descriptors in stable display order. The
// returned slice is a copy; callers may reorder it freely.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// ByID looks up a model by identifier.
func ByID(id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ByProvider returns the models owned by a provider, in display order.
func ByProvider(p credential.Provider) []Model {
	var out []Model
	for _, m := range models {
		if m.Provider == p {
			out = append(out, m)
		}
	}
	return out
}

// Default returns the model used when no valid selection is stored.
func Default() Model {
	return models[0]
}
