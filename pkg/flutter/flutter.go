// Package flutter extracts widget instantiations from Dart source with a
// lightweight lexical scanner. It needs no Dart toolchain: constructor
// calls are located by name, their argument spans recovered by bracket
// balancing, and accessibility-relevant properties pulled from string
// literals.
package flutter

// Element is a single widget instantiation found in Dart source.
type Element struct {
	Widget        string            `json:"widget"`
	File          string            `json:"file"`
	Line          int               `json:"line"`
	Props         map[string]string `json:"props,omitempty"`
	SemanticLabel string            `json:"semantic_label,omitempty"`
	Tooltip       string            `json:"tooltip,omitempty"`
	Text          string            `json:"text,omitempty"`
	ResourceID    string            `json:"resource_id,omitempty"`
	Clickable     bool              `json:"clickable"`
	Parents       []string          `json:"parents,omitempty"`
}

// Label returns the element's accessible name, preferring semantic
// labels over tooltips over input decoration text. Empty when none is
// set.
func (e Element) Label() string {
	for _, l := range []string{e.SemanticLabel, e.Tooltip, e.Props["labelText"], e.Props["hintText"]} {
		if l != "" {
			return l
		}
	}

	return ""
}

// Labeled reports whether the element already carries an accessible name
// through any of the label-bearing properties.
func (e Element) Labeled() bool {
	return e.Label() != ""
}

// Class describes how a widget participates in accessibility checks.
type Class int

const (
	// Visual widgets convey information without text (WCAG 1.1.1).
	Visual Class = iota
	// Interactive widgets respond to taps and need an accessible name
	// (WCAG 4.1.2).
	Interactive
	// Input widgets collect text and need a visible or semantic label
	// (WCAG 2.4.6).
	Input
)

var classes = map[string]Class{
	"Image":         Visual,
	"Image.asset":   Visual,
	"Image.network": Visual,
	"Icon":          Visual,
	"CircleAvatar":  Visual,

	"IconButton":           Interactive,
	"FloatingActionButton": Interactive,
	"GestureDetector":      Interactive,
	"InkWell":              Interactive,
	"ElevatedButton.icon":  Interactive,
	"PopupMenuButton":      Interactive,

	"TextField":     Input,
	"TextFormField": Input,
}

// ClassOf returns the accessibility class of a widget name. The second
// return value is false for widgets the scanner does not audit.
func ClassOf(widget string) (Class, bool) {
	c, ok := classes[widget]
	return c, ok
}
