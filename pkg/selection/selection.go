// Package selection persists the user's chosen model and gates that
// choice on credential availability.
//
// A selection is only ever written through Selector.Select, which refuses
// models whose provider has no resolvable API key. The stored file may
// therefore reference a credential-less provider only if keys were removed
// after the fact; consumers re-run the gating check before use.
package selection

import (
	"fmt"

	"github.com/seojunpark/axlint/pkg/credential"
)

// Selected is the persisted model choice: the model identifier plus its
// owning provider. The zero value means "no selection".
type Selected struct {
	Model    string              `json:"model"`
	Provider credential.Provider `json:"provider"`
}

// IsZero reports whether s carries no selection.
func (s Selected) IsZero() bool {
	return s.Model == "" && s.Provider == ""
}

// NoCredentialError rejects a model selection because its provider has no
// resolvable API key. The message names the exact environment variable to
// set, so UIs can surface it verbatim as the blocking notification.
type NoCredentialError struct {
	Provider credential.Provider
	EnvVar   string
}

func (e *NoCredentialError) Error() string {
	return fmt.Sprintf("no API key configured for %s: set %s to enable its models", e.Provider, e.EnvVar)
}
