package httpadapter

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
	"github.com/kirillkom/support-assistant/internal/core/session"
)

type generatorFake struct{}

func (generatorFake) NewConversation() ports.Conversation { return conversationFake{} }

func (generatorFake) GenerateFromPrompt(context.Context, string) (string, error) {
	return "", nil
}

type conversationFake struct{}

func (conversationFake) Send(context.Context, string) (string, error) {
	return "", nil
}

type intakeFake struct{}

func (intakeFake) Submit(context.Context, domain.ContactRecord) error { return nil }

func dialChat(t *testing.T, query ports.QueryService) (*websocket.Conn, func()) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewChatHandler(intakeFake{}, query, generatorFake{}, session.Config{}, logger, nil)

	server := httptest.NewServer(handler)
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial websocket: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) outboundFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestChatAnswersQuestionWithLinksDecorated(t *testing.T) {
	query := &queryServiceFake{answer: &domain.Answer{
		Text: "See http://example.com for pricing",
	}}
	conn, cleanup := dialChat(t, query)
	defer cleanup()

	if err := conn.WriteJSON(inboundFrame{Text: "how much does it cost?"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != "bot" {
		t.Fatalf("expected bot frame, got %+v", frame)
	}
	if !strings.Contains(frame.Text, `<a href="http://example.com"`) {
		t.Fatalf("expected decorated link in reply, got %q", frame.Text)
	}
}

func TestChatServiceIntentOpensContactFlow(t *testing.T) {
	query := &queryServiceFake{answer: &domain.Answer{Text: "irrelevant"}}
	conn, cleanup := dialChat(t, query)
	defer cleanup()

	if err := conn.WriteJSON(inboundFrame{Text: "I want to build an app"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != "bot" || !strings.Contains(frame.Text, "What's your name?") {
		t.Fatalf("expected contact flow opening, got %+v", frame)
	}
}

func TestChatRejectsMalformedFrame(t *testing.T) {
	conn, cleanup := dialChat(t, &queryServiceFake{answer: &domain.Answer{Text: "x"}})
	defer cleanup()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	frame := readFrame(t, conn)
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}
}

func TestChatRejectsEmptyText(t *testing.T) {
	conn, cleanup := dialChat(t, &queryServiceFake{answer: &domain.Answer{Text: "x"}})
	defer cleanup()

	if err := conn.WriteJSON(inboundFrame{Text: "   "}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	frame := readFrame(t, conn)
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}
}
