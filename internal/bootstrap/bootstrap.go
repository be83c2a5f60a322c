package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/support-assistant/internal/config"
	"github.com/kirillkom/support-assistant/internal/core/ports"
	"github.com/kirillkom/support-assistant/internal/core/usecase"
	"github.com/kirillkom/support-assistant/internal/infrastructure/chunking"
	"github.com/kirillkom/support-assistant/internal/infrastructure/extractor"
	"github.com/kirillkom/support-assistant/internal/infrastructure/extractor/pdfdoc"
	"github.com/kirillkom/support-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/support-assistant/internal/infrastructure/intake"
	"github.com/kirillkom/support-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/support-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/support-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/support-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/support-assistant/internal/infrastructure/storage/localfs"
)

// App wires the shared object graph. Both binaries build one and pick
// the ports they serve.
type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Docs      ports.DocumentReader
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.QueryService
	AdminUC   ports.CorpusAdmin
	Generator ports.Generator
	Intake    ports.ContactIntake

	closeFn func()
}

// Options carries optional wiring that only one of the binaries needs.
type Options struct {
	// ProcessObserver receives processing telemetry; nil disables it.
	ProcessObserver usecase.ProcessObserver
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	return NewWithOptions(ctx, cfg, logger, Options{})
}

func NewWithOptions(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunkRepo := postgres.NewChunkRepository(db, logger)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutorWithLogger(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(
		ollamaClient,
		ollama.BuildSystemPrompt(cfg.AssistantName, cfg.CompanyName, time.Now()),
	)

	chunker := chunking.NewSplitter(cfg.ChunkSize)
	extract := extractor.NewRouter(
		pdfdoc.NewExtractor(storage),
		plaintext.NewExtractor(storage),
	)

	retrieveUC := usecase.NewRetrieveUseCase(chunkRepo, logger)
	ingestUC := usecase.NewIngestDocumentUseCase(docRepo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(docRepo, chunkRepo, extract, chunker, embedder, opts.ProcessObserver)
	queryUC := usecase.NewQueryUseCase(embedder, retrieveUC, generator, cfg.RAGTopK)
	adminUC := usecase.NewAdminUseCase(docRepo, chunkRepo)

	return &App{
		Config: cfg,

		Queue:     queue,
		Docs:      docRepo,
		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,
		AdminUC:   adminUC,
		Generator: generator,
		Intake:    intake.NewWithExecutor(cfg.IntakeURL, executor),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
