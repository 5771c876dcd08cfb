package chatui

import (
	"time"

	"github.com/seojunpark/axlint/pkg/chats"
)

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// replyMsg is returned by the tea.Cmd that asks the advisor.
type replyMsg struct {
	reply    chats.Message
	err      error
	duration time.Duration
}

// initDrainMsg fires after a short delay so that stale terminal responses
// (e.g. OSC 11 background-color replies) are discarded before focusing input.
type initDrainMsg struct{}

// tickMsg drives the waiting spinner.
type tickMsg time.Time
