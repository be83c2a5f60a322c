package usecase

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

type chunkRepoFake struct {
	chunks  []domain.Chunk
	listErr error
}

func (f *chunkRepoFake) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *chunkRepoFake) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0)
	for _, c := range f.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *chunkRepoFake) ListAllChunks(context.Context) ([]domain.Chunk, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.chunks, nil
}

func (f *chunkRepoFake) DeleteAll(context.Context) (int64, error) {
	n := int64(len(f.chunks))
	f.chunks = nil
	return n, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func corpus() []domain.Chunk {
	return []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "alpha", Vector: []float32{1, 0}},
		{DocumentID: "d1", Index: 1, Content: "beta", Vector: []float32{0, 1}},
		{DocumentID: "d1", Index: 2, Content: "gamma", Vector: []float32{0.6, 0.8}},
		{DocumentID: "d2", Index: 0, Content: "no vector yet"},
	}
}

func TestRetrieveOrdersByScoreDescending(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: corpus()}, testLogger())

	got, err := uc.Retrieve(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 scored chunks (vectorless skipped), got %d", len(got))
	}
	contents := []string{got[0].Chunk.Content, got[1].Chunk.Content, got[2].Chunk.Content}
	if !reflect.DeepEqual(contents, []string{"alpha", "gamma", "beta"}) {
		t.Fatalf("unexpected order: %v", contents)
	}
	if got[0].Score <= got[1].Score || got[1].Score <= got[2].Score {
		t.Fatalf("scores not descending: %v %v %v", got[0].Score, got[1].Score, got[2].Score)
	}
}

func TestRetrieveDeterministicAcrossCalls(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: corpus()}, testLogger())
	query := []float32{0.7, 0.7}

	first, err := uc.Retrieve(context.Background(), query, 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := uc.Retrieve(context.Background(), query, 3)
		if err != nil {
			t.Fatalf("Retrieve() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("retrieval not deterministic on call %d", i)
		}
	}
}

func TestRetrieveTiesKeepOriginalOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "first", Vector: []float32{1, 0}},
		{DocumentID: "d1", Index: 1, Content: "second", Vector: []float32{1, 0}},
		{DocumentID: "d1", Index: 2, Content: "third", Vector: []float32{2, 0}},
	}
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: chunks}, testLogger())

	got, err := uc.Retrieve(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	// All three score 1.0; the stable sort must keep insertion order.
	contents := []string{got[0].Chunk.Content, got[1].Chunk.Content, got[2].Chunk.Content}
	if !reflect.DeepEqual(contents, []string{"first", "second", "third"}) {
		t.Fatalf("tie-break broke original order: %v", contents)
	}
}

func TestRetrieveKZeroReturnsEmpty(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: corpus()}, testLogger())
	got, err := uc.Retrieve(context.Background(), []float32{1, 0}, 0)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for k=0, got %d", len(got))
	}
}

func TestRetrieveKLargerThanCorpus(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: corpus()}, testLogger())
	got, err := uc.Retrieve(context.Background(), []float32{1, 0}, 100)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all scorable chunks, got %d", len(got))
	}
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{}, testLogger())
	_, err := uc.Retrieve(context.Background(), []float32{1, 0}, 3)
	if !domain.IsKind(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestRetrieveNoScorableChunks(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "pending"},
	}}, testLogger())

	_, err := uc.Retrieve(context.Background(), []float32{1, 0}, 3)
	if !domain.IsKind(err, domain.ErrNoRelevantResults) {
		t.Fatalf("expected ErrNoRelevantResults, got %v", err)
	}
	if domain.IsKind(err, domain.ErrEmptyCorpus) {
		t.Fatalf("vectorless corpus must not report empty corpus")
	}
}

func TestRetrieveDimensionMismatchAbortsCall(t *testing.T) {
	uc := NewRetrieveUseCase(&chunkRepoFake{chunks: []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "good", Vector: []float32{1, 0}},
		{DocumentID: "d1", Index: 1, Content: "bad shape", Vector: []float32{1, 0, 0}},
	}}, testLogger())

	_, err := uc.Retrieve(context.Background(), []float32{1, 0}, 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNoRelevantResults) {
		t.Fatalf("mismatch must surface as no relevant results, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("underlying mismatch kind must be preserved, got %v", err)
	}
}
