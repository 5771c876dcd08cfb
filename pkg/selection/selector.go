package selection

import (
	"fmt"

	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/credential"
)

// Selector applies the selection rules: a model may only be chosen when
// its provider has a resolvable credential. All UIs (wizard, web API, MCP
// tool) funnel through one Selector so the gating behaves identically
// everywhere.
type Selector struct {
	// Credentials answers whether a provider is usable.
	Credentials *credential.Resolver

	// Store persists the accepted choice.
	Store *Store

	// OnSelect, when non-nil, is invoked exactly once per successful
	// Select with the finalized selection. Callers use it to rebuild
	// whatever holds the live model, such as an advisor session.
	OnSelect func(Selected)
}

// Select validates and persists a model choice.
//
// Unknown model identifiers are an error. A model whose provider has no
// credential is rejected with a NoCredentialError naming the environment
// variable to set; the store is left untouched and OnSelect is not
// invoked. On success the selection is saved, OnSelect fires once, and
// the returned Selected echoes what was persisted.
func (s *Selector) Select(modelID string) (Selected, error) {
	m, ok := catalog.ByID(modelID)
	if !ok {
		return Selected{}, fmt.Errorf("selection: unknown model %q", modelID)
	}

	if _, ok := s.Credentials.Resolve(m.Provider); !ok {
		v, _ := credential.VarsFor(m.Provider)
		return Selected{}, &NoCredentialError{Provider: m.Provider, EnvVar: v.Primary}
	}

	sel := Selected{Model: m.ID, Provider: m.Provider}
	if err := s.Store.Save(sel); err != nil {
		return Selected{}, err
	}

	if s.OnSelect != nil {
		s.OnSelect(sel)
	}

	return sel, nil
}

// Current returns the model the tool should use right now: the persisted
// selection when it still names a known model, the catalog default
// otherwise. Stored data that disagrees with the catalog, such as an
// unknown id or the wrong provider, is treated the same as no selection.
func (s *Selector) Current() catalog.Model {
	sel, ok := s.Store.Load()
	if !ok {
		return catalog.Default()
	}

	m, ok := catalog.ByID(sel.Model)
	if !ok || m.Provider != sel.Provider {
		return catalog.Default()
	}

	return m
}

// Selectable reports whether a model's provider currently resolves a
// credential. Display layers use this for gating: unavailable models are
// shown disabled, never hidden.
func (s *Selector) Selectable(m catalog.Model) bool {
	_, ok := s.Credentials.Resolve(m.Provider)
	return ok
}
