package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojunpark/axlint/pkg/chats"
	"github.com/seojunpark/axlint/pkg/modeladapter/usage"
)

func TestComplete(t *testing.T) {
	var captured apiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "use Semantics("}, {"text": "label: 'Close')"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 15, "candidatesTokenCount": 7, "totalTokenCount": 22}
		}`))
	}))
	defer srv.Close()

	a := New(srv.URL, "g-test-key", "gemini-2.0-flash")
	a.Client = srv.Client()

	c := chats.New(
		chats.NewMessage(chats.System, "review accessibility"),
		chats.NewMessage(chats.User, "unlabeled close button"),
		chats.NewMessage(chats.Assistant, "where does it appear?"),
		chats.NewMessage(chats.User, "in the app bar"),
	)

	msg, err := a.Complete(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, chats.Assistant, msg.Role)
	assert.Equal(t, "use Semantics(label: 'Close')", msg.Text)

	// System prompt maps to systemInstruction, assistant turns to "model".
	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.SystemInstruction.Parts, 1)
	assert.Equal(t, "review accessibility", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, 8192, captured.GenerationConfig.MaxOutputTokens)

	last, ok := a.Usage.Last()
	require.True(t, ok)
	assert.Equal(t, usage.TokenCount{InputTokens: 15, OutputTokens: 7}, last)
}

func TestComplete_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [], "usageMetadata": {}}`))
	}))
	defer srv.Close()

	a := New(srv.URL, "g-test-key", "gemini-2.0-flash")
	a.Client = srv.Client()

	_, err := a.Complete(context.Background(), chats.New(chats.NewMessage(chats.User, "hi")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty candidates")

	// A rejected response records no usage.
	_, ok := a.Usage.Last()
	assert.False(t, ok)
}

func TestBuildRequest_NoSystemInstruction(t *testing.T) {
	a := New("http://x", "k", "gemini-1.5-pro")

	req := a.buildRequest(chats.New(chats.NewMessage(chats.User, "hi")))

	assert.Nil(t, req.SystemInstruction)
	require.Len(t, req.Contents, 1)
}
