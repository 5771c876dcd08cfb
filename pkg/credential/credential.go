// Package credential resolves LLM provider API keys.
//
// Keys are looked up first in a Bag (an immutable snapshot of the key
// environment variables taken once at startup, mirroring the env script
// asset served to the web UI) and then in the live process environment.
// For each provider a primary variable name is checked before an
// alternate-convention fallback. The first non-empty value wins; absence
// is a normal outcome, never an error.
package credential

// Provider identifies one of the supported LLM backends.
type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	Google    Provider = "google"
)

// Providers returns the supported providers in stable order.
func Providers() []Provider {
	return []Provider{OpenAI, Anthropic, Google}
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case OpenAI, Anthropic, Google:
		return true
	}
	return false
}

// String returns the underlying string value of the provider.
func (p Provider) String() string {
	return string(p)
}

// Vars holds the environment variable names checked for one provider.
// Primary is the canonical name; Alternate is a fallback convention seen
// in the wild and is consulted only when Primary is unset or empty.
type Vars struct {
	Primary   string
	Alternate string
}

// vars is the single source of truth for provider key variables. The env
// asset generator enumerates the primaries from this table, so adding a
// provider here extends both the injector and the resolver.
var vars = map[Provider]Vars{
	OpenAI:    {Primary: "OPENAI_API_KEY", Alternate: "OPENAI_KEY"},
	Anthropic: {Primary: "ANTHROPIC_API_KEY", Alternate: "CLAUDE_API_KEY"},
	Google:    {Primary: "GOOGLE_API_KEY", Alternate: "GEMINI_API_KEY"},
}

// VarsFor returns the variable names for a provider.
func VarsFor(p Provider) (Vars, bool) {
	v, ok := vars[p]
	return v, ok
}

// PrimaryVars returns the primary variable names in provider order. This
// is the exact list the env asset generator materializes.
func PrimaryVars() []string {
	names := make([]string, 0, len(vars))
	for _, p := range Providers() {
		names = append(names, vars[p].Primary)
	}
	return names
}
