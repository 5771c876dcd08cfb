package chatui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seojunpark/axlint/cmd/axlint/internal/format"
	"github.com/seojunpark/axlint/cmd/axlint/internal/styles"
)

// chatBlock is one rendered transcript entry.
type chatBlock struct {
	content string
}

// chatViewModel shows the transcript in a scrollable viewport with a
// spinner line underneath while the advisor is working.
type chatViewModel struct {
	viewport   viewport.Model
	blocks     []chatBlock
	processing bool
	spinnerIdx int
	waitingMsg string
	width      int
	height     int
	ready      bool
}

func newChatView() chatViewModel {
	return chatViewModel{}
}

func (m chatViewModel) Update(msg tea.Msg) (chatViewModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport plus a reserved spinner line, so the layout
// does not jump when processing starts.
func (m chatViewModel) View() string {
	if !m.ready {
		return ""
	}

	spinner := ""
	if m.processing {
		frame := format.SpinnerFrames[m.spinnerIdx%len(format.SpinnerFrames)]
		spinner = fmt.Sprintf("  %s %s",
			styles.SpinnerStyle.Render(frame),
			styles.SpinnerStyle.Render(m.waitingMsg),
		)
	}

	return m.viewport.View() + "\n" + spinner
}

// addBlock appends a rendered entry and scrolls to the bottom.
func (m *chatViewModel) addBlock(content string) {
	m.blocks = append(m.blocks, chatBlock{content: content})
	m.updateViewport()
}

func (m *chatViewModel) setSize(w, h int) {
	m.width = w
	// One line is always reserved for the spinner.
	vh := max(h-1, 1)

	if !m.ready {
		m.viewport = viewport.New(w, vh)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = vh
	}

	m.height = h
	m.updateViewport()
}

func (m *chatViewModel) updateViewport() {
	if !m.ready {
		return
	}

	parts := make([]string, len(m.blocks))
	for i, b := range m.blocks {
		parts[i] = b.content
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

// setProcessing toggles the spinner and picks a fresh waiting message.
func (m *chatViewModel) setProcessing(on bool) {
	m.processing = on
	if on {
		m.waitingMsg = format.RandomThinkingMessage()
	}
}

func (m *chatViewModel) advanceSpinner() {
	m.spinnerIdx++
}
