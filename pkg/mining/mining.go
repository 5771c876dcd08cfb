// Package mining rebuilds rule tables from UI caption datasets. Input is
// JSONL, one labeled element per line; output is the rule files the
// engine loads, so mined rules drop straight into .axlint/rules.
package mining

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/seojunpark/axlint/pkg/rules"
)

// Record is one labeled UI element from a captions dataset.
type Record struct {
	App        string   `json:"app"`
	Widget     string   `json:"widget"`
	ResourceID string   `json:"resource_id"`
	Text       string   `json:"text"`
	Captions   []string `json:"captions"`
}

// Read decodes JSONL records from r. Blank lines are ignored; lines that
// fail to decode are skipped and counted rather than failing the whole
// dataset.
func Read(r io.Reader) ([]Record, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var records []Record
	skipped := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec Record
		if err := sonic.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("mining: read dataset: %w", err)
	}

	return records, skipped, nil
}

// ReadFile reads a JSONL dataset from disk.
func ReadFile(path string) ([]Record, int, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided dataset location
	if err != nil {
		return nil, 0, fmt.Errorf("mining: open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

const (
	topPerKey      = 3
	topPerApp      = 5
	topActionWords = 20
	minAppElements = 5
)

// categories maps pattern categories to their trigger keywords. A
// caption joins a category when any keyword appears in it as a
// substring, once per category.
var categories = map[string][]string{
	"navigation":    {"go", "back", "forward", "next", "previous"},
	"action":        {"click", "tap", "press", "select", "choose"},
	"input":         {"enter", "type", "input", "write"},
	"search":        {"search", "find", "look", "browse"},
	"media":         {"camera", "photo", "video", "image", "picture"},
	"communication": {"call", "message", "email", "chat", "send"},
	"social":        {"share", "like", "favorite", "bookmark", "follow"},
	"settings":      {"settings", "config", "options", "preferences"},
	"creation":      {"add", "create", "new", "make"},
	"modification":  {"edit", "modify", "change", "update"},
	"deletion":      {"delete", "remove", "clear", "erase"},
	"confirmation":  {"confirm", "save", "submit", "ok"},
	"cancellation":  {"cancel", "close", "dismiss", "exit"},
}

// actionWords is the closed vocabulary counted into action_rules.
var actionWords = wordSet(
	"go", "open", "click", "enter", "type", "search", "add", "get",
	"toggle", "select", "view", "show", "hide", "save", "delete", "edit",
	"share", "like", "favorite", "bookmark", "call", "message", "email",
	"camera", "photo", "video", "location", "map", "notification",
	"settings", "menu", "back", "forward", "close", "cancel", "confirm",
	"submit",
)

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Mine aggregates the records into a rule set: top captions per resource
// id, widget class, pattern category and app, plus action word counts.
func Mine(records []Record) rules.Set {
	byResource := map[string]counter{}
	byClass := map[string]counter{}
	byCategory := map[string]counter{}
	byApp := map[string]counter{}
	appElements := map[string]int{}
	actions := counter{}

	for _, rec := range records {
		labeled := false

		for _, caption := range rec.Captions {
			if caption == "" {
				continue
			}
			labeled = true

			if rec.ResourceID != "" {
				bump(byResource, rec.ResourceID, caption)
			}
			if rec.Widget != "" {
				bump(byClass, rec.Widget, caption)
			}
			if rec.App != "" {
				bump(byApp, rec.App, caption)
			}

			lower := strings.ToLower(caption)
			for cat, keywords := range categories {
				for _, kw := range keywords {
					if strings.Contains(lower, kw) {
						bump(byCategory, cat, caption)
						break
					}
				}
			}
			for _, w := range strings.Fields(lower) {
				if _, ok := actionWords[w]; ok {
					actions[w]++
				}
			}
		}

		if labeled && rec.App != "" {
			appElements[rec.App]++
		}
	}

	set := rules.Set{
		Resources: map[string][]string{},
		Classes:   map[string][]string{},
		Patterns:  map[string][]string{},
		Apps:      map[string][]string{},
		Actions:   map[string]int{},
	}

	for id, c := range byResource {
		set.Resources[id] = c.top(topPerKey)
	}
	for class, c := range byClass {
		set.Classes[class] = c.top(topPerKey)
	}
	for cat, c := range byCategory {
		set.Patterns[cat] = c.top(topPerKey)
	}
	for app, c := range byApp {
		if appElements[app] >= minAppElements {
			set.Apps[app] = c.top(topPerApp)
		}
	}
	for _, w := range actions.top(topActionWords) {
		set.Actions[w] = actions[w]
	}

	return set
}

type counter map[string]int

func bump(m map[string]counter, key, caption string) {
	c, ok := m[key]
	if !ok {
		c = counter{}
		m[key] = c
	}
	c[caption]++
}

// top returns the n most frequent entries, ties broken lexicographically
// so output is deterministic.
func (c counter) top(n int) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if c[keys[i]] != c[keys[j]] {
			return c[keys[i]] > c[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// ruleFiles pairs each output filename with its table, matching the
// names the rule loader recognises.
var ruleFiles = []struct {
	name string
	data func(rules.Set) any
}{
	{"resource_id_rules.json", func(s rules.Set) any { return s.Resources }},
	{"class_name_rules.json", func(s rules.Set) any { return s.Classes }},
	{"text_pattern_rules.json", func(s rules.Set) any { return s.Patterns }},
	{"app_specific_rules.json", func(s rules.Set) any { return s.Apps }},
	{"action_rules.json", func(s rules.Set) any { return s.Actions }},
}

// WriteRules writes the five rule files to dir, creating it as needed.
// Keys are sorted so reruns over the same dataset produce identical
// files.
func WriteRules(set rules.Set, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mining: create rules dir: %w", err)
	}

	for _, rf := range ruleFiles {
		data, err := sonic.ConfigStd.MarshalIndent(rf.data(set), "", "  ")
		if err != nil {
			return fmt.Errorf("mining: marshal %s: %w", rf.name, err)
		}
		data = append(data, '\n')

		path := filepath.Join(dir, rf.name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // rule tables are not secret
			return fmt.Errorf("mining: write %s: %w", rf.name, err)
		}
	}

	return nil
}
