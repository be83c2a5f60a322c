package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

// ProcessObserver receives pipeline telemetry. A nil observer disables
// reporting; implementations must be safe for concurrent use.
type ProcessObserver interface {
	ObserveEmbedDuration(d time.Duration)
	AddChunksIndexed(count int)
}

type nopProcessObserver struct{}

func (nopProcessObserver) ObserveEmbedDuration(time.Duration) {}
func (nopProcessObserver) AddChunksIndexed(int)               {}

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	chunkRepo ports.ChunkRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	observer  ProcessObserver
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	chunkRepo ports.ChunkRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	observer ProcessObserver,
) *ProcessDocumentUseCase {
	if observer == nil {
		observer = nopProcessObserver{}
	}
	return &ProcessDocumentUseCase{
		repo:      repo,
		chunkRepo: chunkRepo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		observer:  observer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	contents := uc.chunker.Split(text)
	if len(contents) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	chunks, err := uc.embedChunks(ctx, doc.ID, contents)
	if err != nil {
		return err
	}

	if err := uc.chunkRepo.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	indexed := 0
	for _, chunk := range chunks {
		if chunk.Vector != nil {
			indexed++
		}
	}
	uc.observer.AddChunksIndexed(indexed)
	return nil
}

// embedChunks assigns dense indices to every segment and embeds the
// non-empty ones. Empty segments keep their slot so indices reconstruct
// the source order, but they never receive a vector and are therefore
// invisible to retrieval.
func (uc *ProcessDocumentUseCase) embedChunks(ctx context.Context, documentID string, contents []string) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, len(contents))
	texts := make([]string, 0, len(contents))
	positions := make([]int, 0, len(contents))

	for i, content := range contents {
		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Index:      i,
			Content:    content,
		}
		if content != "" {
			texts = append(texts, content)
			positions = append(positions, i)
		}
	}

	if len(texts) == 0 {
		return chunks, nil
	}

	start := time.Now()
	vectors, err := uc.embedder.Embed(ctx, texts, ports.RoleDocument)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	uc.observer.ObserveEmbedDuration(time.Since(start))
	if len(vectors) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(texts)),
		)
	}

	for i, pos := range positions {
		chunks[pos].Vector = vectors[i]
	}
	return chunks, nil
}
