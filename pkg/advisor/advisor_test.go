package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojunpark/axlint/pkg/audit"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/chats"
	"github.com/seojunpark/axlint/pkg/config"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/flutter"
	"github.com/seojunpark/axlint/pkg/providers/openai"
	"github.com/seojunpark/axlint/pkg/rules"
	"github.com/seojunpark/axlint/pkg/selection"
)

type fakeCompleter struct {
	reply chats.Message
	err   error
	got   *chats.Chat
}

func (f *fakeCompleter) Complete(_ context.Context, c *chats.Chat) (chats.Message, error) {
	f.got = c
	if f.err != nil {
		return chats.Message{}, f.err
	}
	return f.reply, nil
}

// emptyResolver resolves nothing, regardless of the process environment.
func emptyResolver() *credential.Resolver {
	return &credential.Resolver{Getenv: func(string) string { return "" }}
}

func TestAdvisor_Ask(t *testing.T) {
	fake := &fakeCompleter{reply: chats.NewMessage(chats.Assistant, "wrap it in Semantics")}
	a := New(fake, nil)

	chat := NewChat("shop_app")
	chat.Append(chats.NewMessage(chats.User, "how do I fix this icon?"))

	msg, err := a.Ask(context.Background(), chat)
	require.NoError(t, err)

	assert.Equal(t, chats.Assistant, msg.Role)
	assert.Equal(t, "wrap it in Semantics", msg.Text)
	assert.Equal(t, 3, chat.Len(), "reply is appended to the conversation")
	assert.Contains(t, chat.SystemPrompt(), `"shop_app"`)
	assert.Same(t, chat, fake.got)
}

func TestAdvisor_Ask_NoModel(t *testing.T) {
	a := New(nil, nil)

	_, err := a.Ask(context.Background(), NewChat("shop_app"))
	require.ErrorIs(t, err, ErrNoModel)
}

func TestAdvisor_Ask_CompleterError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	a := New(fake, nil)

	chat := NewChat("shop_app")
	_, err := a.Ask(context.Background(), chat)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "advisor: complete:")
	assert.Equal(t, 1, chat.Len(), "failed calls do not grow the chat")
}

func TestFromModel(t *testing.T) {
	r := emptyResolver()
	r.Bag = credential.NewBag(map[string]string{"OPENAI_API_KEY": "sk-test"})

	m, ok := catalog.ByID("gpt-4o")
	require.True(t, ok)

	a, err := FromModel(m, r, config.Default(), nil)
	require.NoError(t, err)

	adapter, ok := a.Completer.(*openai.Adapter)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", adapter.Name)
}

func TestFromModel_Overrides(t *testing.T) {
	r := emptyResolver()
	r.Bag = credential.NewBag(map[string]string{"OPENAI_API_KEY": "sk-test"})

	cfg := config.Default()
	cfg.Providers = []config.ProviderConfig{{
		Name:      "openai",
		BaseURL:   "http://localhost:9999",
		MaxTokens: 256,
	}}

	m, _ := catalog.ByID("gpt-4o")
	a, err := FromModel(m, r, cfg, nil)
	require.NoError(t, err)

	adapter := a.Completer.(*openai.Adapter)
	assert.Equal(t, "http://localhost:9999", adapter.BaseURL)
	assert.Equal(t, 256, adapter.MaxTokens)
}

func TestFromModel_NoCredential(t *testing.T) {
	m, _ := catalog.ByID("claude-sonnet-4-20250514")

	_, err := FromModel(m, emptyResolver(), config.Default(), nil)

	var ncErr *selection.NoCredentialError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, credential.Anthropic, ncErr.Provider)
	assert.Equal(t, "ANTHROPIC_API_KEY", ncErr.EnvVar)
}

func TestFindingPrompt(t *testing.T) {
	f := audit.Finding{
		Kind: audit.KindClickableUnlabeled,
		WCAG: "4.1.2",
		Element: flutter.Element{
			Widget:     "IconButton",
			File:       "lib/home.dart",
			Line:       12,
			ResourceID: "settings_button",
			Parents:    []string{"AppBar", "Scaffold"},
		},
		Suggestion: rules.Suggestion{Label: "Open settings", Confidence: 0.8, Source: rules.SourceResourcePartial},
	}

	prompt := FindingPrompt("shop_app", f)

	assert.Contains(t, prompt, `The Flutter app "shop_app" has an accessibility issue.`)
	assert.Contains(t, prompt, "File: lib/home.dart, line 12")
	assert.Contains(t, prompt, "Issue: tappable widget has no accessible name (WCAG 2.2 4.1.2, Name, Role, Value)")
	assert.Contains(t, prompt, "Resource id: settings_button")
	assert.Contains(t, prompt, "Enclosing widgets: AppBar > Scaffold")
	assert.Contains(t, prompt, `Rule suggestion: "Open settings" (confidence 0.80)`)
	assert.Contains(t, prompt, "fenced Dart code block")
	assert.NotContains(t, prompt, "Current label:")
}

func TestSuggestEdit(t *testing.T) {
	reply := "Wrap the button:\n\n```dart\nIconButton(\n  tooltip: 'Open settings',\n)\n```\n\nThat names the control."

	code, ok := SuggestEdit(reply)
	require.True(t, ok)
	assert.Equal(t, "IconButton(\n  tooltip: 'Open settings',\n)\n", code)
}

func TestSuggestEdit_SkipsOtherLanguages(t *testing.T) {
	reply := "Config first:\n```json\n{\"a\": 1}\n```\nthen the widget:\n```\nIcon(Icons.add)\n```"

	code, ok := SuggestEdit(reply)
	require.True(t, ok)
	assert.Equal(t, "Icon(Icons.add)\n", code)
}

func TestSuggestEdit_NoFence(t *testing.T) {
	_, ok := SuggestEdit("just add a tooltip property")
	assert.False(t, ok)
}

func TestSuggestEdit_EmptyBlock(t *testing.T) {
	_, ok := SuggestEdit("```dart\n```")
	assert.False(t, ok)
}

func TestDiff(t *testing.T) {
	oldSrc := "IconButton(\n  icon: Icon(Icons.menu),\n)\n"
	newSrc := "IconButton(\n  icon: Icon(Icons.menu),\n  tooltip: 'Open menu',\n)\n"

	d := Diff("lib/home.dart", oldSrc, newSrc)

	assert.Contains(t, d, "--- lib/home.dart")
	assert.Contains(t, d, "+++ lib/home.dart")
	assert.Contains(t, d, "+  tooltip: 'Open menu',")
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff("lib/home.dart", "Icon(Icons.add)\n", "Icon(Icons.add)\n"))
}
