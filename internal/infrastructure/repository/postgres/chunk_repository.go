package postgres

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

type ChunkRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewChunkRepository(db *sql.DB, logger *slog.Logger) *ChunkRepository {
	return &ChunkRepository{db: db, logger: logger}
}

func (r *ChunkRepository) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Each document's chunk set is replaced wholesale. A re-processed
	// document that shrank must not keep stale rows past its new tail,
	// so an upsert alone is not enough.
	seen := make(map[string]struct{}, 1)
	for _, chunk := range chunks {
		if _, ok := seen[chunk.DocumentID]; ok {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		if _, err := tx.ExecContext(ctx, `
DELETE FROM document_chunks
WHERE document_id = $1
`, chunk.DocumentID); err != nil {
			return fmt.Errorf("clear chunks %s: %w", chunk.DocumentID, err)
		}
	}

	for _, chunk := range chunks {
		_, err := tx.ExecContext(ctx, `
INSERT INTO document_chunks (document_id, chunk_index, content, embedding)
VALUES ($1,$2,$3,$4)
`,
			chunk.DocumentID, chunk.Index, chunk.Content, encodeVector(chunk.Vector),
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s/%d: %w", chunk.DocumentID, chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk tx: %w", err)
	}
	return nil
}

func (r *ChunkRepository) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	return r.list(ctx, `
SELECT document_id, chunk_index, content, embedding
FROM document_chunks
WHERE document_id = $1
ORDER BY chunk_index
`, documentID)
}

func (r *ChunkRepository) ListAllChunks(ctx context.Context) ([]domain.Chunk, error) {
	return r.list(ctx, `
SELECT document_id, chunk_index, content, embedding
FROM document_chunks
ORDER BY document_id, chunk_index
`)
}

func (r *ChunkRepository) list(ctx context.Context, query string, args ...any) ([]domain.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select chunks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Chunk, 0)
	for rows.Next() {
		var chunk domain.Chunk
		var embedding []byte
		if err := rows.Scan(&chunk.DocumentID, &chunk.Index, &chunk.Content, &embedding); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		vector, err := decodeVector(embedding)
		if err != nil {
			// A malformed embedding should not poison the whole scan.
			r.logger.Warn("chunk_embedding_malformed",
				"document_id", chunk.DocumentID,
				"chunk_index", chunk.Index,
				"error", err,
			)
			vector = nil
		}
		chunk.Vector = vector
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func (r *ChunkRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_chunks`)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Embeddings are stored as packed little-endian float32, four bytes per
// dimension. A NULL column round-trips as a nil vector.

func encodeVector(vector []float32) []byte {
	if len(vector) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("embedding byte length %d not divisible by 4", len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return out, nil
}
