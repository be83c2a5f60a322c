package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kirillkom/support-assistant/internal/core/ports"
	"github.com/kirillkom/support-assistant/internal/core/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundFrame struct {
	Text string `json:"text"`
}

type outboundFrame struct {
	Type string `json:"type"` // "bot" or "error"
	Text string `json:"text"`
}

// ChatHandler upgrades /ws/chat connections and binds each one to its
// own session. The session drains messages in arrival order; the write
// side is serialized with a mutex because emits can come from the
// session loop while the handler reports protocol errors.
type ChatHandler struct {
	intake  ports.ContactIntake
	query   ports.QueryService
	gen     ports.Generator
	cfg     session.Config
	logger  *slog.Logger
	metrics session.Metrics
}

func NewChatHandler(
	intake ports.ContactIntake,
	query ports.QueryService,
	gen ports.Generator,
	cfg session.Config,
	logger *slog.Logger,
	chatMetrics session.Metrics,
) *ChatHandler {
	if chatMetrics == nil {
		chatMetrics = session.NopMetrics{}
	}
	return &ChatHandler{
		intake:  intake,
		query:   query,
		gen:     gen,
		cfg:     cfg,
		logger:  logger,
		metrics: chatMetrics,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("chat_upgrade_failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	logger := h.logger.With("session_id", sessionID)

	var writeMu sync.Mutex
	send := func(frame outboundFrame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(frame); err != nil {
			logger.Warn("chat_write_failed", "error", err)
		}
	}
	emit := func(text string) {
		send(outboundFrame{Type: "bot", Text: makeLinksClickable(text)})
	}

	sess := session.New(
		sessionID,
		h.cfg,
		h.intake,
		h.query,
		h.gen.NewConversation(),
		emit,
		logger,
		h.metrics,
	)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("chat_read_failed", "error", err)
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			send(outboundFrame{Type: "error", Text: "invalid message format"})
			continue
		}
		if strings.TrimSpace(frame.Text) == "" {
			send(outboundFrame{Type: "error", Text: "text is required"})
			continue
		}

		sess.Enqueue(frame.Text)
	}

	// Let already-queued messages drain before tearing the session down.
	sess.Close()
	<-done
}
