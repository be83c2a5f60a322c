package ports

import (
	"context"
	"io"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

// DocumentRepository persists document metadata and processing state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ChunkRepository persists chunks and their embeddings.
type ChunkRepository interface {
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
	// ListAllChunks returns every chunk in the corpus, ordered by
	// document then index, for the brute-force retrieval scan.
	ListAllChunks(ctx context.Context) ([]domain.Chunk, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue carries ingestion events from api to worker.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// EmbedRole selects the embedding task the model optimizes for.
type EmbedRole string

const (
	RoleDocument EmbedRole = "document"
	RoleQuery    EmbedRole = "query"
)

// Embedder builds fixed-dimension vectors for chunks and queries.
type Embedder interface {
	Embed(ctx context.Context, texts []string, role EmbedRole) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits extracted text into ordered chunk contents.
type Chunker interface {
	Split(text string) []string
}

// Conversation is one live generation thread. Implementations keep the
// model-side history so follow-up prompts stay contextual.
type Conversation interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// Generator opens conversations and serves one-shot generation.
type Generator interface {
	NewConversation() Conversation
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
}

// ContactIntake submits a completed contact record to the external
// intake endpoint. A non-2xx response is an error.
type ContactIntake interface {
	Submit(ctx context.Context, record domain.ContactRecord) error
}
