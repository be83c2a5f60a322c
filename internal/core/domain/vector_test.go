package domain

import (
	"math"
	"testing"
)

func TestCosineSimilaritySymmetry(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5}
	b := []float32{2.0, 0.1, -0.7}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("CosineSimilarity(a,b) error = %v", err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatalf("CosineSimilarity(b,a) error = %v", err)
	}
	if ab != ba {
		t.Fatalf("expected symmetry, got %v vs %v", ab, ba)
	}
}

func TestCosineSimilaritySelfIsOne(t *testing.T) {
	a := []float32{1.5, -2.5, 0.25, 9}
	got, err := CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0 within tolerance, got %v", got)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	a := []float32{1, 2, 3}
	zero := []float32{0, 0, 0}
	got, err := CosineSimilarity(a, zero)
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for zero-norm operand, got %v", got)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	a := []float32{1, 0}
	opposite := []float32{-1, 0}
	got, err := CosineSimilarity(a, opposite)
	if err != nil {
		t.Fatalf("CosineSimilarity() error = %v", err)
	}
	if math.Abs(got+1.0) > 1e-9 {
		t.Fatalf("expected -1.0 for opposite vectors, got %v", got)
	}
}
