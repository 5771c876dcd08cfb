package chatui

import (
	"fmt"
	"strings"
	"time"

	"github.com/seojunpark/axlint/cmd/axlint/internal/format"
	"github.com/seojunpark/axlint/cmd/axlint/internal/styles"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/modeladapter"
	"github.com/seojunpark/axlint/pkg/providers/provider"
)

// statusBarModel shows the active model, token usage and timing.
type statusBarModel struct {
	model     catalog.Model
	completer provider.Completer
	duration  time.Duration
	width     int
}

func newStatusBar(model catalog.Model, completer provider.Completer) statusBarModel {
	return statusBarModel{model: model, completer: completer}
}

// setModel swaps the tracked completer after a model switch. The call
// duration resets because it belonged to the previous model.
func (m *statusBarModel) setModel(model catalog.Model, completer provider.Completer) {
	m.model = model
	m.completer = completer
	m.duration = 0
}

func (m statusBarModel) View() string {
	parts := []string{m.model.Name}

	if usage := m.usageLine(); usage != "" {
		parts = append(parts, usage)
	}

	parts = append(parts, "ctrl+p model", "esc quit")

	line := " " + strings.Join(parts, " · ")
	if m.width > 0 {
		line = format.Truncate(line, m.width)
	}

	return styles.StatusStyle.Render(line)
}

func (m statusBarModel) usageLine() string {
	ur, ok := m.completer.(modeladapter.UsageReporter)
	if !ok {
		if m.duration > 0 {
			return format.FmtDuration(m.duration)
		}

		return ""
	}

	total := ur.UsageTracker().Total()
	last, hasLast := ur.UsageTracker().Last()

	switch {
	case hasLast && m.duration > 0:
		return fmt.Sprintf("last: ↑%s ↓%s · total: ↑%s ↓%s · %s",
			format.FmtTokens(last.InputTokens),
			format.FmtTokens(last.OutputTokens),
			format.FmtTokens(total.InputTokens),
			format.FmtTokens(total.OutputTokens),
			format.FmtDuration(m.duration),
		)
	case total.Total() > 0:
		return fmt.Sprintf("tokens: ↑%s ↓%s",
			format.FmtTokens(total.InputTokens),
			format.FmtTokens(total.OutputTokens),
		)
	default:
		return ""
	}
}
