// Package advisor turns audit findings into model conversations and
// renders the returned Dart edits.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/chats"
	"github.com/seojunpark/axlint/pkg/config"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/logging"
	"github.com/seojunpark/axlint/pkg/modeladapter"
	"github.com/seojunpark/axlint/pkg/providers/provider"
	"github.com/seojunpark/axlint/pkg/selection"
)

// ErrNoModel is returned by Ask when the advisor has no completer, which
// happens when no model is selected or its provider has no API key.
var ErrNoModel = errors.New("advisor: no model available")

const systemPrompt = `You are an accessibility reviewer for the Flutter application %q.
You help developers fix WCAG 2.2 issues: missing semantic labels, unnamed
tappable widgets, and weak label text.

When you propose a code change, reply with the corrected widget in a
fenced Dart code block. Keep changes minimal: prefer adding a Semantics
wrapper, a semanticLabel, a tooltip, or InputDecoration labelText over
restructuring the widget tree.`

// Advisor sends conversations to the selected model.
type Advisor struct {
	Completer provider.Completer
	Log       *slog.Logger
}

// New creates an Advisor. A nil completer is allowed and makes Ask
// return ErrNoModel; a nil logger discards.
func New(c provider.Completer, log *slog.Logger) *Advisor {
	if log == nil {
		log = logging.Discard()
	}

	return &Advisor{Completer: c, Log: log}
}

// FromModel builds an Advisor for a catalog model, resolving its
// credential and applying per-provider overrides from cfg. The returned
// error is a *selection.NoCredentialError when the provider has no key,
// so callers can surface the exact variable to set. This is also the
// rebuild hook for selection.Selector.OnSelect.
func FromModel(m catalog.Model, creds *credential.Resolver, cfg config.Config, log *slog.Logger) (*Advisor, error) {
	key, ok := creds.Resolve(m.Provider)
	if !ok {
		vars, _ := credential.VarsFor(m.Provider)
		return nil, &selection.NoCredentialError{Provider: m.Provider, EnvVar: vars.Primary}
	}

	pc := provider.Config{Provider: m.Provider, APIKey: key, Model: m.ID}
	if over, found := cfg.Provider(m.Provider); found {
		pc.BaseURL = over.BaseURL
		pc.MaxTokens = over.MaxTokens
		pc.Temperature = over.Temperature
		if over.APIKey != "" {
			pc.APIKey = over.APIKey
		}
	}

	c, err := provider.Build(pc)
	if err != nil {
		return nil, fmt.Errorf("advisor: build completer: %w", err)
	}

	return New(c, log), nil
}

// NewChat returns a conversation seeded with the advisor system prompt
// for the given app.
func NewChat(app string) *chats.Chat {
	return chats.New(chats.NewMessage(chats.System, fmt.Sprintf(systemPrompt, app)))
}

// Ask completes the conversation, appends the reply to it, and returns
// the reply.
func (a *Advisor) Ask(ctx context.Context, chat *chats.Chat) (chats.Message, error) {
	if a.Completer == nil {
		return chats.Message{}, ErrNoModel
	}

	var est modeladapter.TokenEstimator
	a.Log.Debug("asking model", "turns", chat.Len(), "est_input_tokens", est.EstimateChat(chat))

	msg, err := a.Completer.Complete(ctx, chat)
	if err != nil {
		return chats.Message{}, fmt.Errorf("advisor: complete: %w", err)
	}

	chat.Append(msg)
	a.Log.Debug("advisor reply", "chars", len(msg.Text))

	return msg, nil
}

// FindingPrompt builds a fix request for one audit finding.
func FindingPrompt(app string, f audit.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The Flutter app %q has an accessibility issue.\n\n", app)
	fmt.Fprintf(&b, "File: %s, line %d\n", f.Element.File, f.Element.Line)
	fmt.Fprintf(&b, "Widget: %s\n", f.Element.Widget)
	fmt.Fprintf(&b, "Issue: %s (WCAG 2.2 %s, %s)\n", issueText(f.Kind), f.WCAG, audit.CriterionName(f.WCAG))

	if f.Element.ResourceID != "" {
		fmt.Fprintf(&b, "Resource id: %s\n", f.Element.ResourceID)
	}
	if cur := f.Element.Label(); cur != "" {
		fmt.Fprintf(&b, "Current label: %q\n", cur)
	}
	if f.Element.Text != "" {
		fmt.Fprintf(&b, "Visible text: %q\n", f.Element.Text)
	}
	if len(f.Element.Parents) > 0 {
		fmt.Fprintf(&b, "Enclosing widgets: %s\n", strings.Join(f.Element.Parents, " > "))
	}

	fmt.Fprintf(&b, "Rule suggestion: %q (confidence %.2f)\n\n", f.Suggestion.Label, f.Suggestion.Confidence)
	b.WriteString("Explain the problem in one or two sentences, then show the fixed widget in a fenced Dart code block.")

	return b.String()
}

func issueText(k audit.Kind) string {
	switch k {
	case audit.KindClickableUnlabeled:
		return "tappable widget has no accessible name"
	case audit.KindImprovement:
		return "existing label can be more descriptive"
	default:
		return "widget has no accessible label"
	}
}

// SuggestEdit extracts the first fenced Dart code block from a model
// reply. Untagged fences are accepted; fences tagged with another
// language are skipped. Returns false when the reply has no usable
// block.
func SuggestEdit(reply string) (string, bool) {
	rest := reply
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return "", false
		}
		rest = rest[start+3:]

		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return "", false
		}
		lang := strings.TrimSpace(rest[:nl])

		body := rest[nl+1:]
		end := strings.Index(body, "```")
		if end < 0 {
			return "", false
		}

		if lang == "dart" || lang == "" {
			code := strings.Trim(body[:end], "\n")
			if code == "" {
				return "", false
			}
			return code + "\n", true
		}

		rest = body[end+3:]
	}
}
