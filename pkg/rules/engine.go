package rules

import (
	"maps"
	"slices"
	"strings"

	"github.com/seojunpark/axlint/pkg/flutter"
)

// Source identifies which cascade stage produced a suggestion. The
// values appear in reports and exports, so they are stable.
type Source string

const (
	SourceExplicit        Source = "explicit"
	SourceResourceExact   Source = "resource_id_exact"
	SourceResourcePartial Source = "resource_id_partial"
	SourceApp             Source = "app_specific"
	SourceTextPattern     Source = "text_pattern"
	SourceClassExact      Source = "class_exact"
	SourceClassSimple     Source = "class_simple"
	SourceContext         Source = "context"
	SourceDefault         Source = "default"
)

// confidences are part of the reporting contract: scores compare across
// runs, exports, and the history store.
var confidences = map[Source]float64{
	SourceExplicit:        1.0,
	SourceResourceExact:   0.95,
	SourceResourcePartial: 0.8,
	SourceApp:             0.7,
	SourceTextPattern:     0.6,
	SourceClassExact:      0.5,
	SourceClassSimple:     0.4,
	SourceContext:         0.3,
	SourceDefault:         0.1,
}

// Confidence returns the fixed score attached to the source.
func (s Source) Confidence() float64 { return confidences[s] }

// Suggestion is a proposed semantic label with its provenance.
type Suggestion struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Engine applies the suggestion cascade over a rule set.
type Engine struct {
	set Set
}

// NewEngine creates an Engine over the given rule set.
func NewEngine(set Set) *Engine {
	return &Engine{set: set}
}

// Suggest returns the best label for the element. The cascade runs in
// fixed order and the first stage that matches wins; an element that
// matches nothing still gets a generic default at low confidence.
func (e *Engine) Suggest(app string, el flutter.Element) Suggestion {
	if label := explicitLabel(el); label != "" {
		return suggest(label, SourceExplicit)
	}

	if el.ResourceID != "" {
		if labels := e.set.Resources[el.ResourceID]; len(labels) > 0 {
			return suggest(labels[0], SourceResourceExact)
		}
		if pattern := e.resourcePattern(el.ResourceID); pattern != "" {
			return suggest(e.set.Resources[pattern][0], SourceResourcePartial)
		}
	}

	if labels := e.appLabels(app); len(labels) > 0 {
		return suggest(labels[0], SourceApp)
	}

	if el.Text != "" {
		if label := e.textPattern(el.Text); label != "" {
			return suggest(label, SourceTextPattern)
		}
	}

	if labels := e.set.Classes[el.Widget]; len(labels) > 0 {
		return suggest(labels[0], SourceClassExact)
	}
	if labels := e.set.Classes[simpleName(el.Widget)]; len(labels) > 0 {
		return suggest(labels[0], SourceClassSimple)
	}

	if label := e.inferFromContext(el); label != "" {
		return suggest(label, SourceContext)
	}

	return suggest(defaultLabel(el.Widget), SourceDefault)
}

// Alternatives lists candidate labels for the element in cascade order,
// deduplicated and capped at five.
func (e *Engine) Alternatives(app string, el flutter.Element) []string {
	var out []string
	seen := map[string]bool{}
	add := func(labels ...string) {
		for _, l := range labels {
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
	}

	if el.ResourceID != "" {
		add(e.set.Resources[el.ResourceID]...)
		if pattern := e.resourcePattern(el.ResourceID); pattern != "" {
			add(e.set.Resources[pattern]...)
		}
	}
	add(e.appLabels(app)...)
	if el.Text != "" {
		if label := e.textPattern(el.Text); label != "" {
			add(label)
		}
	}
	add(e.set.Classes[el.Widget]...)
	add(e.set.Classes[simpleName(el.Widget)]...)

	if len(out) > 5 {
		out = out[:5]
	}

	return out
}

func suggest(label string, src Source) Suggestion {
	return Suggestion{Label: label, Confidence: src.Confidence(), Source: src}
}

// explicitLabel returns the accessible name the element already has.
func explicitLabel(el flutter.Element) string {
	for _, l := range []string{el.SemanticLabel, el.Tooltip, el.Props["labelText"], el.Props["hintText"]} {
		if l != "" {
			return l
		}
	}
	return ""
}

// resourcePattern finds the longest rule key that is a substring of the
// resource id. Ties go to the lexicographically smaller key so results
// are stable.
func (e *Engine) resourcePattern(id string) string {
	lower := strings.ToLower(id)

	best := ""
	for _, pattern := range slices.Sorted(maps.Keys(e.set.Resources)) {
		if !strings.Contains(lower, strings.ToLower(pattern)) {
			continue
		}
		if len(pattern) > len(best) {
			best = pattern
		}
	}

	return best
}

// appLabels returns the labels of the first app rule whose key matches
// the app name, exact match preferred.
func (e *Engine) appLabels(app string) []string {
	if app == "" {
		return nil
	}
	if labels, ok := e.set.Apps[app]; ok {
		return labels
	}

	for _, key := range slices.Sorted(maps.Keys(e.set.Apps)) {
		if strings.Contains(app, key) {
			return e.set.Apps[key]
		}
	}

	return nil
}

// textPattern matches visible text against the caption patterns, then
// against the mined action words.
func (e *Engine) textPattern(text string) string {
	lower := strings.ToLower(text)

	for _, cat := range slices.Sorted(maps.Keys(e.set.Patterns)) {
		for _, p := range e.set.Patterns[cat] {
			if strings.Contains(lower, strings.ToLower(p)) {
				return p
			}
		}
	}

	for _, word := range strings.Fields(lower) {
		if _, ok := e.set.Actions[word]; !ok {
			continue
		}
		if label := e.patternForWord(word); label != "" {
			return label
		}
	}

	return ""
}

// inferFromContext derives a label from the enclosing widget chain when
// the element itself gives nothing to work with.
func (e *Engine) inferFromContext(el flutter.Element) string {
	context := strings.ToLower(strings.Join(el.Parents, " "))
	if context == "" {
		return ""
	}

	for _, cat := range slices.Sorted(maps.Keys(e.set.Patterns)) {
		for _, p := range e.set.Patterns[cat] {
			if strings.Contains(context, strings.ToLower(p)) {
				return p
			}
		}
	}

	for _, word := range slices.Sorted(maps.Keys(e.set.Actions)) {
		if !strings.Contains(context, word) {
			continue
		}
		if label := e.patternForWord(word); label != "" {
			return label
		}
	}

	return ""
}

// patternForWord returns the first caption of the first category whose
// patterns mention the action word.
func (e *Engine) patternForWord(word string) string {
	for _, cat := range slices.Sorted(maps.Keys(e.set.Patterns)) {
		for _, p := range e.set.Patterns[cat] {
			if strings.Contains(strings.ToLower(p), word) {
				return e.set.Patterns[cat][0]
			}
		}
	}
	return ""
}

// simpleName strips the named-constructor suffix: Image.asset -> Image.
func simpleName(widget string) string {
	name, _, _ := strings.Cut(widget, ".")
	return name
}

// defaultLabel is the last-resort generic label keyed off the widget
// class name.
func defaultLabel(widget string) string {
	w := strings.ToLower(widget)

	switch {
	case strings.Contains(w, "button"):
		return "Button"
	case strings.Contains(w, "image"), strings.Contains(w, "icon"), strings.Contains(w, "avatar"):
		return "Image"
	case strings.Contains(w, "textfield") || strings.Contains(w, "textformfield"):
		return "Input field"
	case strings.Contains(w, "gesturedetector"), strings.Contains(w, "inkwell"):
		return "Interactive element"
	default:
		return "UI element"
	}
}
