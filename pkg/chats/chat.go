package chats

// Chat is a mutable conversation container. The zero value is ready to
// use. Chat is not safe for concurrent use; callers must synchronize
// externally.
type Chat struct {
	messages []Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	return len(c.messages)
}

// At returns the message at the given index.
// It panics if the index is out of range.
func (c *Chat) At(index int) Message {
	return c.messages[index]
}

// Last returns the most recent message and true, or a zero Message and
// false if the conversation is empty.
func (c *Chat) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []Message {
	cp := make([]Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// SystemPrompt returns the text of the first system message, or an empty
// string if there is none.
func (c *Chat) SystemPrompt() string {
	for _, m := range c.messages {
		if m.Role == System {
			return m.Text
		}
	}
	return ""
}

// Turns returns the non-system messages in order. Provider adapters use
// this to build their message arrays while carrying the system prompt
// separately when the API requires it.
func (c *Chat) Turns() []Message {
	var out []Message
	for _, m := range c.messages {
		if m.Role != System {
			out = append(out, m)
		}
	}
	return out
}
