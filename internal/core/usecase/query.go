package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

type QueryUseCase struct {
	embedder  ports.Embedder
	retriever ports.ChunkRetriever
	generator ports.Generator
	topK      int
}

func NewQueryUseCase(
	embedder ports.Embedder,
	retriever ports.ChunkRetriever,
	generator ports.Generator,
	topK int,
) *QueryUseCase {
	if topK <= 0 {
		topK = 3
	}
	return &QueryUseCase{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Answer serves the one-shot REST path: no conversation history.
func (uc *QueryUseCase) Answer(ctx context.Context, question string, limit int) (*domain.Answer, error) {
	prompt, sources, err := uc.grounding(ctx, question, limit)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.GenerateFromPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &domain.Answer{Text: text, Sources: sources}, nil
}

// AnswerInConversation routes the grounded prompt through a live
// conversation handle so the model keeps the session's history.
func (uc *QueryUseCase) AnswerInConversation(ctx context.Context, conv ports.Conversation, question string, limit int) (*domain.Answer, error) {
	prompt, sources, err := uc.grounding(ctx, question, limit)
	if err != nil {
		return nil, err
	}

	text, err := conv.Send(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &domain.Answer{Text: text, Sources: sources}, nil
}

func (uc *QueryUseCase) grounding(ctx context.Context, question string, limit int) (string, []domain.ScoredChunk, error) {
	if limit <= 0 {
		limit = uc.topK
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("embed query: %w", err)
	}

	sources, err := uc.retriever.Retrieve(ctx, queryVector, limit)
	if err != nil {
		return "", nil, err
	}

	return composeGroundedPrompt(question, sources), sources, nil
}
