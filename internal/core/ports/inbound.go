package ports

import (
	"context"
	"io"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ChunkRetriever ranks stored chunks against a query vector.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, queryVector []float32, k int) ([]domain.ScoredChunk, error)
}

// QueryService is the inbound contract for retrieval-augmented answering.
type QueryService interface {
	Answer(ctx context.Context, question string, limit int) (*domain.Answer, error)
	AnswerInConversation(ctx context.Context, conv Conversation, question string, limit int) (*domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// CorpusAdmin wipes the ingested corpus.
type CorpusAdmin interface {
	WipeAll(ctx context.Context) (documents, chunks int64, err error)
}
