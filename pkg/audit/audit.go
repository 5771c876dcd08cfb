// Package audit turns scanned widgets into prioritised accessibility
// findings with suggested labels and WCAG 2.2 criterion references.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/seojunpark/axlint/pkg/flutter"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/rules"
)

// Kind classifies a finding.
type Kind string

const (
	// KindMissingLabel is a visual or input widget with no accessible name.
	KindMissingLabel Kind = "missing_label"
	// KindClickableUnlabeled is a tappable widget with no accessible name.
	KindClickableUnlabeled Kind = "clickable_unlabeled"
	// KindImprovement is a labeled widget where the rules produce a
	// confident, different suggestion.
	KindImprovement Kind = "improvement"
)

// Priority orders findings for triage.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// improvementFloor is the confidence a shadow suggestion must exceed
// before second-guessing an existing label.
const improvementFloor = 0.7

// Finding is one accessibility issue tied to a scanned element.
type Finding struct {
	Kind         Kind             `json:"kind"`
	Priority     Priority         `json:"priority"`
	WCAG         string           `json:"wcag"`
	Element      flutter.Element  `json:"element"`
	Suggestion   rules.Suggestion `json:"suggestion"`
	Alternatives []string         `json:"alternatives,omitempty"`
}

// Report aggregates the findings of one audit run. Stats count every
// audited element, including those whose findings were filtered out.
type Report struct {
	App           string           `json:"app"`
	Root          string           `json:"root"`
	GeneratedAt   time.Time        `json:"generated_at"`
	TotalElements int              `json:"total_elements"`
	Labeled       int              `json:"labeled"`
	Unlabeled     int              `json:"unlabeled"`
	Coverage      float64          `json:"coverage"`
	Findings      []Finding        `json:"findings"`
	ByPriority    map[Priority]int `json:"by_priority"`
	BySource      map[string]int   `json:"by_source"`
}

// Auditor runs the rule engine over scanned projects. MinConfidence is
// the floor below which suggestions are considered too speculative to
// raise as findings.
type Auditor struct {
	Rules         *rules.Engine
	MinConfidence float64
	Log           *slog.Logger
}

// New creates an Auditor. A nil logger discards.
func New(engine *rules.Engine, minConfidence float64, log *slog.Logger) *Auditor {
	if log == nil {
		log = logging.Discard()
	}

	return &Auditor{Rules: engine, MinConfidence: minConfidence, Log: log}
}

// Run audits every element of the project. Cancelling the context stops
// the walk early and returns the partial report.
func (a *Auditor) Run(ctx context.Context, proj flutter.Project) *Report {
	r := &Report{
		App:         proj.App,
		Root:        proj.Root,
		GeneratedAt: time.Now().UTC(),
		ByPriority:  map[Priority]int{},
		BySource:    map[string]int{},
	}

	for _, el := range proj.Elements {
		if ctx.Err() != nil {
			break
		}

		class, audited := flutter.ClassOf(el.Widget)
		if !audited {
			continue
		}

		r.TotalElements++
		if el.Labeled() {
			r.Labeled++
		} else {
			r.Unlabeled++
		}

		f, ok := a.check(proj.App, class, el)
		if !ok {
			continue
		}

		f.Priority = priorityOf(el.Clickable, f.Suggestion.Confidence)
		r.Findings = append(r.Findings, f)
		r.ByPriority[f.Priority]++
		r.BySource[string(f.Suggestion.Source)]++
	}

	if r.TotalElements > 0 {
		r.Coverage = float64(r.Labeled) / float64(r.TotalElements) * 100
	}

	a.Log.Debug("audit complete",
		"app", r.App,
		"elements", r.TotalElements,
		"findings", len(r.Findings),
		"coverage", r.Coverage)

	return r
}

// check produces at most one finding per element.
func (a *Auditor) check(app string, class flutter.Class, el flutter.Element) (Finding, bool) {
	if el.Labeled() {
		return a.checkImprovement(app, class, el)
	}

	sug := a.Rules.Suggest(app, el)
	if sug.Confidence < a.MinConfidence {
		return Finding{}, false
	}

	kind := KindMissingLabel
	if el.Clickable {
		kind = KindClickableUnlabeled
	}

	return Finding{
		Kind:         kind,
		WCAG:         Criterion(kind, class),
		Element:      el,
		Suggestion:   sug,
		Alternatives: a.Rules.Alternatives(app, el),
	}, true
}

// checkImprovement asks the rules what they would say if the element
// were unlabeled; a confident answer that differs from the current
// label becomes an improvement finding.
func (a *Auditor) checkImprovement(app string, class flutter.Class, el flutter.Element) (Finding, bool) {
	current := el.Label()
	shadow := stripLabels(el)

	sug := a.Rules.Suggest(app, shadow)
	if sug.Confidence <= improvementFloor || sug.Confidence < a.MinConfidence || sug.Label == current {
		return Finding{}, false
	}

	return Finding{
		Kind:         KindImprovement,
		WCAG:         Criterion(KindImprovement, class),
		Element:      el,
		Suggestion:   sug,
		Alternatives: a.Rules.Alternatives(app, shadow),
	}, true
}

// stripLabels returns a copy of the element with its accessible names
// removed, so the rules suggest from structure alone.
func stripLabels(el flutter.Element) flutter.Element {
	el.SemanticLabel = ""
	el.Tooltip = ""

	if el.Props != nil {
		props := make(map[string]string, len(el.Props))
		for k, v := range el.Props {
			if k == "labelText" || k == "hintText" {
				continue
			}
			props[k] = v
		}
		el.Props = props
	}

	return el
}

func priorityOf(clickable bool, confidence float64) Priority {
	switch {
	case clickable && confidence > 0.8:
		return PriorityHigh
	case clickable || confidence > 0.6:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Criterion maps a finding to the WCAG 2.2 success criterion it falls
// under: 4.1.2 for unnamed controls, 2.4.6 for unlabeled inputs, 1.1.1
// for non-text content.
func Criterion(kind Kind, class flutter.Class) string {
	if kind == KindClickableUnlabeled {
		return "4.1.2"
	}

	switch class {
	case flutter.Input:
		return "2.4.6"
	case flutter.Interactive:
		return "4.1.2"
	default:
		return "1.1.1"
	}
}

var criterionNames = map[string]string{
	"1.1.1": "Non-text Content",
	"2.4.6": "Headings and Labels",
	"4.1.2": "Name, Role, Value",
}

// CriterionName returns the WCAG 2.2 name of a criterion reference, or
// the reference itself when unknown.
func CriterionName(ref string) string {
	if name, ok := criterionNames[ref]; ok {
		return name
	}
	return ref
}
