package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/support-assistant/internal/core/ports"
	"github.com/kirillkom/support-assistant/internal/observability/metrics"
)

type Options struct {
	Service        string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
	OverloadWait   time.Duration
}

func (o Options) normalize() Options {
	if o.Service == "" {
		o.Service = "api"
	}
	if o.RateLimitRPS <= 0 {
		o.RateLimitRPS = 50
	}
	if o.RateLimitBurst <= 0 {
		o.RateLimitBurst = 100
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 64
	}
	if o.OverloadWait <= 0 {
		o.OverloadWait = 200 * time.Millisecond
	}
	return o
}

type Router struct {
	ingest  ports.DocumentIngestor
	reader  ports.DocumentReader
	query   ports.QueryService
	admin   ports.CorpusAdmin
	chat    *ChatHandler
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
	opts    Options
}

func NewRouter(
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	query ports.QueryService,
	admin ports.CorpusAdmin,
	chat *ChatHandler,
	serverMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	opts Options,
) *Router {
	return &Router{
		ingest:  ingest,
		reader:  reader,
		query:   query,
		admin:   admin,
		chat:    chat,
		metrics: serverMetrics,
		logger:  logger,
		opts:    opts.normalize(),
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/healthz", rt.healthz)
	api.HandleFunc("/v1/documents", rt.uploadDocument)
	api.HandleFunc("/v1/documents/", rt.getDocumentByID)
	api.HandleFunc("/v1/rag/query", rt.queryRAG)
	api.HandleFunc("/v1/admin/wipe", rt.wipeCorpus)

	limited := rateLimitMiddleware(
		backpressureMiddleware(api, rt.opts.MaxConcurrent, rt.opts.OverloadWait),
		rt.opts.RateLimitRPS,
		rt.opts.RateLimitBurst,
	)

	// The websocket endpoint and the scrape endpoint sit outside the
	// traffic gates: chat connections are long-lived and would pin a
	// backpressure slot for their whole lifetime.
	root := http.NewServeMux()
	if rt.metrics != nil {
		root.Handle("/metrics", rt.metrics.Handler())
	}
	if rt.chat != nil {
		root.Handle("/ws/chat", rt.chat)
	}
	root.Handle("/", limited)

	handler := http.Handler(root)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.opts.Service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) queryRAG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	answer, err := rt.query.Answer(r.Context(), req.Question, req.Limit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRAGObservation(rt.opts.Service, "rag_query", len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) wipeCorpus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	documents, chunks, err := rt.admin.WipeAll(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.logger.Warn("corpus_wiped", "documents", documents, "chunks", chunks)
	writeJSON(w, http.StatusOK, map[string]int64{
		"documents_deleted": documents,
		"chunks_deleted":    chunks,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
