package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

// RetrieveUseCase is the brute-force semantic search over the stored
// chunks: O(N*D) per query, a deliberate choice for corpora of hundreds
// to low thousands of chunks.
type RetrieveUseCase struct {
	chunks ports.ChunkRepository
	logger *slog.Logger
}

func NewRetrieveUseCase(chunks ports.ChunkRepository, logger *slog.Logger) *RetrieveUseCase {
	return &RetrieveUseCase{chunks: chunks, logger: logger}
}

// Retrieve scores every chunk that carries a vector against queryVector
// and returns up to k results, highest score first. Ties keep original
// chunk order so repeated calls are deterministic. Chunks without a
// vector are excluded from ranking rather than scored as zero.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, queryVector []float32, k int) ([]domain.ScoredChunk, error) {
	all, err := uc.chunks.ListAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.WrapError(domain.ErrEmptyCorpus, "retrieve", fmt.Errorf("no chunks ingested"))
	}

	scored := make([]domain.ScoredChunk, 0, len(all))
	for _, chunk := range all {
		if len(chunk.Vector) == 0 {
			continue
		}
		score, simErr := domain.CosineSimilarity(queryVector, chunk.Vector)
		if simErr != nil {
			// A shape mismatch poisons the whole scan; abort this call
			// rather than rank a partial corpus.
			uc.logger.Error("retrieval_dimension_mismatch",
				"document_id", chunk.DocumentID,
				"chunk_index", chunk.Index,
				"error", simErr,
			)
			return nil, domain.WrapError(domain.ErrNoRelevantResults, "retrieve", simErr)
		}
		scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: score})
	}

	if len(scored) == 0 {
		return nil, domain.WrapError(domain.ErrNoRelevantResults, "retrieve", fmt.Errorf("no scorable chunks"))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < 0 {
		k = 0
	}
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}
