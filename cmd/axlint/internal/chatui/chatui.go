// Package chatui is the interactive accessibility chat. It renders the
// conversation with the advisor in a scrollable viewport, shows token
// usage in a status bar, and embeds the model picker behind ctrl+p.
package chatui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/seojunpark/axlint/cmd/axlint/internal/format"
	"github.com/seojunpark/axlint/cmd/axlint/internal/styles"
	"github.com/seojunpark/axlint/cmd/axlint/internal/wizard"
	"github.com/seojunpark/axlint/pkg/advisor"
	"github.com/seojunpark/axlint/pkg/catalog"
	"github.com/seojunpark/axlint/pkg/chats"
	"github.com/seojunpark/axlint/pkg/credential"
	"github.com/seojunpark/axlint/pkg/providers/provider"
	"github.com/seojunpark/axlint/pkg/selection"
)

// Options configure a chat session.
type Options struct {
	// App names the Flutter app in the advisor system prompt.
	App string

	// Selector persists model switches made from the picker.
	Selector *selection.Selector

	// Advisor returns the current model and its live advisor. The
	// advisor may be nil when the model's provider has no credential;
	// the function is consulted again after every successful switch.
	Advisor func() (catalog.Model, *advisor.Advisor)

	// Initial, when non-empty, prefills the input box. The user still
	// has to submit it.
	Initial string
}

// Run starts the chat TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	// Detect the terminal background before bubbletea owns the input
	// stream; querying it later would race with the event loop.
	format.IsDarkBG = lipgloss.HasDarkBackground()

	p := tea.NewProgram(newAppModel(ctx, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chatui: %w", err)
	}

	return nil
}

// appState represents the application state machine.
type appState int

const (
	stateIdle appState = iota
	stateProcessing
	statePicking
)

// appModel is the root bubbletea model.
type appModel struct {
	ctx         context.Context
	opts        Options
	chat        *chats.Chat
	chatView    chatViewModel
	inputBox    inputModel
	statusBar   statusBarModel
	picker      *huh.Form
	pickerValue string
	state       appState
	width       int
	height      int
	sendStart   time.Time
}

func newAppModel(ctx context.Context, opts Options) appModel {
	model, adv := opts.Advisor()

	var completer provider.Completer
	if adv != nil {
		completer = adv.Completer
	}

	m := appModel{
		ctx:       ctx,
		opts:      opts,
		chat:      advisor.NewChat(opts.App),
		chatView:  newChatView(),
		inputBox:  newInput(),
		statusBar: newStatusBar(model, completer),
		state:     stateIdle,
	}

	if opts.Initial != "" {
		m.inputBox.setValue(opts.Initial)
	}

	return m
}

func (m appModel) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses (e.g. OSC 11 background-color) are drained first.
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return initDrainMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case initDrainMsg:
		cmd := m.inputBox.enable()
		return m, cmd

	case inputSubmitMsg:
		return m.handleSubmit(msg)

	case replyMsg:
		return m.handleReply(msg)

	case tickMsg:
		if m.state == stateProcessing {
			m.chatView.advanceSpinner()
			return m, tickCmd()
		}
		return m, nil
	}

	// Delegate to the active sub-component.
	switch m.state {
	case statePicking:
		return m.updatePicker(msg)
	case stateIdle:
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	inputSection := m.inputBox.View()
	if m.picker != nil {
		inputSection = m.picker.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.chatView.View(),
		inputSection,
		m.statusBar.View(),
	)
}

func (m *appModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	format.InitMarkdownRenderer(m.width - 4)
	m.inputBox.setWidth(m.width)
	m.statusBar.width = m.width
	m.recalcLayout()

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	return m, cmd
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if m.state == statePicking {
			m.closePicker()
			return m, m.inputBox.enable()
		}
		return m, tea.Quit

	case tea.KeyCtrlP:
		if m.state == stateIdle {
			return m.openPicker()
		}
	}

	switch m.state {
	case statePicking:
		return m.updatePicker(msg)
	case stateIdle:
		var cmd tea.Cmd
		m.inputBox, cmd = m.inputBox.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *appModel) handleSubmit(msg inputSubmitMsg) (tea.Model, tea.Cmd) {
	text := msg.text

	switch text {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.chatView.addBlock(helpText())
		m.recalcLayout()
		return m, nil
	case "/model":
		return m.openPicker()
	}

	model, adv := m.opts.Advisor()
	if adv == nil || adv.Completer == nil {
		v, _ := credential.VarsFor(model.Provider)
		m.addErrorBlock(fmt.Sprintf("%s needs %s; set it or press ctrl+p to pick another model",
			model.Name, v.Primary))
		m.recalcLayout()
		return m, nil
	}

	m.chatView.addBlock(styles.UserPrefixStyle.Render("you> ") + text)

	m.state = stateProcessing
	m.inputBox.disable()
	m.chatView.setProcessing(true)
	m.recalcLayout()
	m.sendStart = time.Now()

	m.chat.Append(chats.NewMessage(chats.User, text))

	ctx := m.ctx
	chat := m.chat
	start := m.sendStart
	sendCmd := func() tea.Msg {
		reply, err := adv.Ask(ctx, chat)
		return replyMsg{reply: reply, err: err, duration: time.Since(start)}
	}

	return m, tea.Batch(sendCmd, tickCmd())
}

func (m *appModel) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.statusBar.duration = msg.duration
	m.state = stateIdle
	focusCmd := m.inputBox.enable()
	m.chatView.setProcessing(false)

	switch {
	case msg.err != nil:
		if m.ctx.Err() == nil {
			m.addErrorBlock(msg.err.Error())
		}
	default:
		m.chatView.addBlock(
			styles.AnswerPrefixStyle.Render("axlint> ") + "\n" +
				format.RenderMarkdown(msg.reply.Text),
		)
	}

	m.recalcLayout()
	return m, focusCmd
}

// openPicker swaps the input box for an embedded model selection form.
// The form's validation applies the same credential gating as every
// other surface, so a keyless model cannot be accepted here either.
func (m *appModel) openPicker() (tea.Model, tea.Cmd) {
	m.pickerValue = m.opts.Selector.Current().ID
	m.picker = wizard.ModelForm(m.opts.Selector, &m.pickerValue)
	m.state = statePicking
	m.inputBox.disable()
	m.recalcLayout()

	return m, m.picker.Init()
}

func (m *appModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.picker = f
	}

	switch m.picker.State {
	case huh.StateCompleted:
		return m.applyModelChoice()
	case huh.StateAborted:
		m.closePicker()
		return m, m.inputBox.enable()
	}

	return m, cmd
}

// applyModelChoice persists the picked model through the selector, which
// fires the rebuild hook, and refreshes the status bar from the result.
func (m *appModel) applyModelChoice() (tea.Model, tea.Cmd) {
	id := m.pickerValue
	m.closePicker()

	if _, err := m.opts.Selector.Select(id); err != nil {
		m.addErrorBlock("switch model: " + err.Error())
		m.recalcLayout()
		return m, m.inputBox.enable()
	}

	model, adv := m.opts.Advisor()

	var completer provider.Completer
	if adv != nil {
		completer = adv.Completer
	}

	m.statusBar.setModel(model, completer)
	m.chatView.addBlock(styles.DimStyle.Render("switched to " + model.Name))
	m.recalcLayout()

	return m, m.inputBox.enable()
}

func (m *appModel) closePicker() {
	m.picker = nil
	m.state = stateIdle
	m.recalcLayout()
}

func (m *appModel) addErrorBlock(text string) {
	m.chatView.addBlock(styles.ErrorStyle.Render("error: " + text))
}

func (m *appModel) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	// Status bar = 1 line, input box ~ border(2) + content lines.
	statusHeight := 1
	inputHeight := lipgloss.Height(m.inputBox.View())
	if m.picker != nil {
		inputHeight = lipgloss.Height(m.picker.View())
	}

	chatHeight := max(m.height-inputHeight-statusHeight, 1)
	m.chatView.setSize(m.width, chatHeight)
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func helpText() string {
	return styles.DimStyle.Render(
		"Commands:\n" +
			"  /help          Show this help message\n" +
			"  /model         Switch models\n" +
			"  /quit          Exit the chat\n\n" +
			"Shortcuts:\n" +
			"  Enter          Submit message\n" +
			"  Alt+Enter      New line\n" +
			"  Ctrl+P         Switch models\n" +
			"  Esc            Exit",
	)
}
