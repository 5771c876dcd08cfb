// Package rules suggests semantic labels for widgets through a fixed
// confidence cascade over rule tables mined from captioned UI datasets.
// A default set ships embedded; projects override individual keys by
// dropping the same JSON files into .axlint/rules.
package rules

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// Set holds the rule tables the cascade consults. Tables are treated as
// read-only once loaded; Merge copies rather than mutates.
type Set struct {
	Resources map[string][]string // resource-id pattern -> candidate labels
	Classes   map[string][]string // widget class -> candidate labels
	Patterns  map[string][]string // caption category -> captions
	Apps      map[string][]string // app name -> candidate labels
	Actions   map[string]int      // action word -> observed count
}

// ruleFiles maps each table to the JSON file that carries it, for the
// embedded defaults and project overrides alike.
var ruleFiles = map[string]func(*Set) any{
	"resource_id_rules.json":  func(s *Set) any { return &s.Resources },
	"class_name_rules.json":   func(s *Set) any { return &s.Classes },
	"text_pattern_rules.json": func(s *Set) any { return &s.Patterns },
	"app_specific_rules.json": func(s *Set) any { return &s.Apps },
	"action_rules.json":       func(s *Set) any { return &s.Actions },
}

var (
	defaultsOnce sync.Once
	defaultSet   Set
)

// Default returns the embedded rule set.
func Default() Set {
	defaultsOnce.Do(func() {
		for name, field := range ruleFiles {
			data, err := defaultsFS.ReadFile("defaults/" + name)
			if err != nil {
				panic(fmt.Sprintf("rules: embedded %s: %v", name, err))
			}
			if err := json.Unmarshal(data, field(&defaultSet)); err != nil {
				panic(fmt.Sprintf("rules: embedded %s: %v", name, err))
			}
		}
	})

	return defaultSet
}

// Load returns the defaults overlaid with any project rules found in
// dir. A missing directory simply means no overrides.
func Load(dir string) (Set, error) {
	overrides, err := LoadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Set{}, err
	}

	return Default().Merge(overrides), nil
}

// LoadDir reads the recognised rule files from dir (non-recursive) into
// a Set. Files with other names are ignored.
func LoadDir(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Set{}, fmt.Errorf("rules: read dir %q: %w", dir, err)
	}

	var s Set
	for _, e := range entries {
		field, ok := ruleFiles[e.Name()]
		if e.IsDir() || !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name())) //nolint:gosec // dir is the project rules directory
		if err != nil {
			return Set{}, fmt.Errorf("rules: read %q: %w", e.Name(), err)
		}
		if err := json.Unmarshal(data, field(&s)); err != nil {
			return Set{}, fmt.Errorf("rules: parse %q: %w", e.Name(), err)
		}
	}

	return s, nil
}

// Merge returns a new Set where keys present in o replace keys in s,
// table by table. Neither input is modified.
func (s Set) Merge(o Set) Set {
	return Set{
		Resources: mergeTable(s.Resources, o.Resources),
		Classes:   mergeTable(s.Classes, o.Classes),
		Patterns:  mergeTable(s.Patterns, o.Patterns),
		Apps:      mergeTable(s.Apps, o.Apps),
		Actions:   mergeTable(s.Actions, o.Actions),
	}
}

func mergeTable[V any](base, over map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}

	return out
}
