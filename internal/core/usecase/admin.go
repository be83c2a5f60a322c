package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/support-assistant/internal/core/ports"
)

type AdminUseCase struct {
	repo      ports.DocumentRepository
	chunkRepo ports.ChunkRepository
}

func NewAdminUseCase(repo ports.DocumentRepository, chunkRepo ports.ChunkRepository) *AdminUseCase {
	return &AdminUseCase{repo: repo, chunkRepo: chunkRepo}
}

// WipeAll deletes the entire ingested corpus, chunks before documents.
func (uc *AdminUseCase) WipeAll(ctx context.Context) (int64, int64, error) {
	chunks, err := uc.chunkRepo.DeleteAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("delete chunks: %w", err)
	}
	documents, err := uc.repo.DeleteAll(ctx)
	if err != nil {
		return documents, chunks, fmt.Errorf("delete documents: %w", err)
	}
	return documents, chunks, nil
}
