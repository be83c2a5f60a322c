package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/flow"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

const (
	msgNoDocuments = "I couldn't find any uploaded documents. Please upload a PDF first."
	msgNoRelevant  = "I couldn't find relevant information in your documents."
	msgTrouble     = "I'm having trouble processing your request. Please try again later."
)

type Config struct {
	TopK int
	// CallTimeout bounds each external call made while handling one
	// message (embedding, generation, contact submission).
	CallTimeout time.Duration
	// StartDelay is how long a detected intent waits before the contact
	// flow opens, so the preceding bot message renders first.
	StartDelay time.Duration
	QueueSize  int
}

func (c Config) normalize() Config {
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 60 * time.Second
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 32
	}
	return c
}

// Metrics receives per-message outcomes. Implementations must be safe
// for concurrent use across sessions.
type Metrics interface {
	SessionOpened()
	SessionClosed()
	MessageHandled(outcome string)
	ContactSubmitted()
}

type NopMetrics struct{}

func (NopMetrics) SessionOpened()        {}
func (NopMetrics) SessionClosed()        {}
func (NopMetrics) MessageHandled(string) {}
func (NopMetrics) ContactSubmitted()     {}

// Session coordinates one live connection. Inbound messages drain from a
// single queue in arrival order, so no two dialogue or retrieval steps
// ever overlap within a session. Sessions share nothing mutable.
type Session struct {
	id      string
	cfg     Config
	flow    *flow.ContactFlow
	conv    ports.Conversation
	query   ports.QueryService
	emit    func(text string)
	logger  *slog.Logger
	metrics Metrics

	inbox        chan string
	closeOnce    sync.Once
	pendingStart bool
}

func New(
	id string,
	cfg Config,
	intake ports.ContactIntake,
	query ports.QueryService,
	conv ports.Conversation,
	emit func(string),
	logger *slog.Logger,
	metrics Metrics,
) *Session {
	cfg = cfg.normalize()
	if metrics == nil {
		metrics = NopMetrics{}
	}
	logger = logger.With("session_id", id)
	return &Session{
		id:      id,
		cfg:     cfg,
		flow:    flow.NewContactFlow(intake, emit, logger),
		conv:    conv,
		query:   query,
		emit:    emit,
		logger:  logger,
		metrics: metrics,
		inbox:   make(chan string, cfg.QueueSize),
	}
}

func (s *Session) ID() string { return s.id }

// Enqueue hands an inbound user message to the session. It blocks when
// the queue is full, which backpressures the transport read loop.
func (s *Session) Enqueue(text string) {
	s.inbox <- text
}

// Close stops Run after the already-queued messages drain.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.inbox) })
}

// Run drains the inbox until the session closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	s.metrics.SessionOpened()
	defer s.metrics.SessionClosed()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.inbox:
			if !ok {
				return
			}
			s.handle(ctx, msg)
			s.maybeStartFlow(ctx)
		}
	}
}

func (s *Session) handle(ctx context.Context, msg string) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	wasActive := s.flow.Active()
	wasSubmitted := s.flow.HasSubmitted()

	if s.flow.Handle(callCtx, msg) {
		if !wasSubmitted && s.flow.HasSubmitted() {
			s.metrics.ContactSubmitted()
		}
		s.metrics.MessageHandled("flow")
		return
	}

	// A decline from an active flow is an interrupt: the message is a
	// general question and goes straight to retrieval, never back into
	// intent detection.
	if !wasActive && !s.flow.HasSubmitted() && flow.HasServiceIntent(msg) {
		s.pendingStart = true
		s.metrics.MessageHandled("flow_start")
		return
	}

	s.answer(callCtx, msg)
}

func (s *Session) answer(ctx context.Context, question string) {
	answer, err := s.query.AnswerInConversation(ctx, s.conv, question, s.cfg.TopK)
	switch {
	case err == nil:
		s.emit(answer.Text)
		s.metrics.MessageHandled("answered")
	case domain.IsKind(err, domain.ErrEmptyCorpus):
		s.emit(msgNoDocuments)
		s.metrics.MessageHandled("empty_corpus")
	case domain.IsKind(err, domain.ErrNoRelevantResults):
		s.emit(msgNoRelevant)
		s.metrics.MessageHandled("no_results")
	default:
		s.logger.Error("session_answer_failed", "error", err)
		s.emit(msgTrouble)
		s.metrics.MessageHandled("error")
	}
}

// maybeStartFlow opens the contact flow as a deferred action on the
// session's own serialized loop. Messages arriving during the delay
// queue up behind the start, so ordering stays deterministic.
func (s *Session) maybeStartFlow(ctx context.Context) {
	if !s.pendingStart {
		return
	}
	s.pendingStart = false

	if s.cfg.StartDelay > 0 {
		timer := time.NewTimer(s.cfg.StartDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
	s.flow.Start()
}
