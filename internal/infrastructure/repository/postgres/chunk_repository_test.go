package postgres

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &ChunkRepository{db: db, logger: logger}, mock, func() { _ = db.Close() }
}

func TestVectorEncodingRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.75, 0}
	decoded, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decodeVector() error = %v", err)
	}
	if !reflect.DeepEqual(in, decoded) {
		t.Fatalf("round trip mismatch: %v vs %v", in, decoded)
	}
}

func TestVectorEncodingNil(t *testing.T) {
	if encodeVector(nil) != nil {
		t.Fatalf("nil vector must encode to NULL")
	}
	decoded, err := decodeVector(nil)
	if err != nil || decoded != nil {
		t.Fatalf("nil column must decode to nil vector, got %v, %v", decoded, err)
	}
}

func TestDecodeVectorRejectsOddLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for truncated embedding")
	}
}

func TestListAllChunksSkipsMalformedEmbedding(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"document_id", "chunk_index", "content", "embedding"}).
		AddRow("d1", 0, "good", encodeVector([]float32{1, 2})).
		AddRow("d1", 1, "bad", []byte{1, 2, 3}).
		AddRow("d1", 2, "pending", nil)
	mock.ExpectQuery("SELECT document_id, chunk_index, content, embedding").
		WillReturnRows(rows)

	chunks, err := repo.ListAllChunks(context.Background())
	if err != nil {
		t.Fatalf("ListAllChunks() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Vector == nil {
		t.Fatalf("valid embedding must decode")
	}
	if chunks[1].Vector != nil {
		t.Fatalf("malformed embedding must be dropped, not fail the scan")
	}
	if chunks[2].Vector != nil {
		t.Fatalf("NULL embedding must stay nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveChunksReplacesDocumentSet(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	chunks := []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "a", Vector: []float32{1}},
		{DocumentID: "d1", Index: 1, Content: ""},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_chunks").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d1", 0, "a", encodeVector([]float32{1})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d1", 1, "", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveChunks(context.Background(), chunks); err != nil {
		t.Fatalf("SaveChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveChunksClearsStaleRowsWhenDocumentShrinks(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	// Re-processing produced a single chunk where three existed before.
	// The delete must run in the same transaction so indices past the
	// new tail cannot survive.
	chunks := []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "shorter now", Vector: []float32{1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_chunks").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d1", 0, "shorter now", encodeVector([]float32{1})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveChunks(context.Background(), chunks); err != nil {
		t.Fatalf("SaveChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveChunksDeletesOncePerDocument(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	chunks := []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "a"},
		{DocumentID: "d2", Index: 0, Content: "b"},
		{DocumentID: "d1", Index: 1, Content: "c"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM document_chunks").
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM document_chunks").
		WithArgs("d2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d1", 0, "a", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d2", 0, "b", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO document_chunks").
		WithArgs("d1", 1, "c", []byte(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveChunks(context.Background(), chunks); err != nil {
		t.Fatalf("SaveChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
