package webui

import (
	"context"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/seojunpark/axlint/pkg/advisor"
	"github.com/seojunpark/axlint/pkg/chats"
)

// Frame is one chat socket message. The browser sends user frames; the
// server answers with assistant or error frames.
type Frame struct {
	Type string `json:"type"` // "user", "assistant" or "error"
	Text string `json:"text"`
}

// handleChat upgrades to a WebSocket and bridges frames to the advisor.
// Each connection gets its own conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Error("chat accept", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ctx := r.Context()
	chat := advisor.NewChat(s.app)

	for {
		var frame Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			// Client went away or the server is shutting down.
			return
		}

		if frame.Type != "user" || strings.TrimSpace(frame.Text) == "" {
			s.writeFrame(ctx, conn, Frame{Type: "error", Text: "expected a user frame with text"})
			continue
		}

		chat.Append(chats.NewMessage(chats.User, frame.Text))

		msg, err := s.currentAdvisor().Ask(ctx, chat)
		if err != nil {
			s.writeFrame(ctx, conn, Frame{Type: "error", Text: err.Error()})
			continue
		}

		if err := wsjson.Write(ctx, conn, Frame{Type: "assistant", Text: msg.Text}); err != nil {
			return
		}
	}
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, f Frame) {
	if err := wsjson.Write(ctx, conn, f); err != nil {
		s.log.Debug("chat write", "error", err)
	}
}
