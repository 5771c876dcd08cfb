package chats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, System.Valid())
	assert.True(t, User.Valid())
	assert.True(t, Assistant.Valid())
	assert.False(t, Role("tool").Valid())
	assert.False(t, Role("").Valid())
}

func TestChat_ZeroValueReady(t *testing.T) {
	var c Chat

	assert.Equal(t, 0, c.Len())
	_, ok := c.Last()
	assert.False(t, ok)

	c.Append(NewMessage(User, "hello"))
	assert.Equal(t, 1, c.Len())
}

func TestChat_AppendAndAccess(t *testing.T) {
	c := New(
		NewMessage(System, "you are an accessibility reviewer"),
		NewMessage(User, "why does this Icon need a label?"),
	)
	c.Append(NewMessage(Assistant, "screen readers announce it"))

	require.Equal(t, 3, c.Len())
	assert.Equal(t, User, c.At(1).Role)

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, Assistant, last.Role)
}

func TestChat_MessagesReturnsCopy(t *testing.T) {
	c := New(NewMessage(User, "original"))

	msgs := c.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "original", c.At(0).Text)
}

func TestChat_SystemPrompt(t *testing.T) {
	c := New(
		NewMessage(User, "first"),
		NewMessage(System, "the prompt"),
	)

	assert.Equal(t, "the prompt", c.SystemPrompt())

	empty := New(NewMessage(User, "no system here"))
	assert.Empty(t, empty.SystemPrompt())
}

func TestChat_Turns(t *testing.T) {
	c := New(
		NewMessage(System, "prompt"),
		NewMessage(User, "question"),
		NewMessage(Assistant, "answer"),
	)

	turns := c.Turns()

	require.Len(t, turns, 2)
	assert.Equal(t, User, turns[0].Role)
	assert.Equal(t, Assistant, turns[1].Role)
}
