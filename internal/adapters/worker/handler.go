package workeradapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/support-assistant/internal/core/ports"
)

// Metrics is the telemetry surface the handler reports into.
type Metrics interface {
	StartDocument()
	FinishDocument(duration time.Duration, err error)
	ObserveQueueLag(lag time.Duration)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) StartDocument()                      {}
func (NopMetrics) FinishDocument(time.Duration, error) {}
func (NopMetrics) ObserveQueueLag(time.Duration)       {}

// Handler consumes document-ingested events and drives the processing
// pipeline for each one.
type Handler struct {
	docs    ports.DocumentReader
	process ports.DocumentProcessor
	metrics Metrics
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewHandler(docs ports.DocumentReader, process ports.DocumentProcessor, m Metrics, logger *slog.Logger, timeout time.Duration) *Handler {
	if m == nil {
		m = NopMetrics{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Handler{
		docs:    docs,
		process: process,
		metrics: m,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Handle processes one document. The returned error signals the queue
// layer that delivery failed; processing status is already persisted by
// the use case regardless.
func (h *Handler) Handle(ctx context.Context, documentID string) error {
	processCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if doc, err := h.docs.GetByID(processCtx, documentID); err == nil {
		h.metrics.ObserveQueueLag(h.now().Sub(doc.CreatedAt))
	}

	h.metrics.StartDocument()
	start := h.now()
	processErr := h.process.ProcessByID(processCtx, documentID)
	elapsed := h.now().Sub(start)
	h.metrics.FinishDocument(elapsed, processErr)

	if processErr != nil {
		h.logger.Error("document_process_failed", "document_id", documentID, "error", processErr)
		return processErr
	}
	h.logger.Info("document_processed", "document_id", documentID, "duration_ms", elapsed.Milliseconds())
	return nil
}
