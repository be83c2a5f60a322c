package chunking

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(100)
	got := s.Split("just a short sentence.")
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "just a short sentence." {
		t.Fatalf("unexpected chunk content: %q", got[0])
	}
}

func TestSplitPrefersPeriodWithinSlack(t *testing.T) {
	// Period at position targetSize+5, no newline before it: the first
	// chunk must end exactly after that period.
	size := 30
	text := strings.Repeat("a", size+5) + ". tail content that keeps going for a while"
	s := NewSplitter(size)

	segs := s.segments(text)
	if len(segs) < 2 {
		t.Fatalf("expected at least 2 segments, got %d", len(segs))
	}
	want := strings.Repeat("a", size+5) + "."
	if segs[0] != want {
		t.Fatalf("expected first segment to end after the period, got %q", segs[0])
	}
}

func TestSplitFallsBackToNewline(t *testing.T) {
	size := 20
	text := strings.Repeat("a", size+3) + "\n" + strings.Repeat("b", 40)
	s := NewSplitter(size)

	segs := s.segments(text)
	if segs[0] != strings.Repeat("a", size+3)+"\n" {
		t.Fatalf("expected first segment to end after the newline, got %q", segs[0])
	}
}

func TestSplitHardCutWhenNoDelimiterInRange(t *testing.T) {
	size := 10
	text := strings.Repeat("x", 35)
	s := NewSplitter(size)

	segs := s.segments(text)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	for i := 0; i < 3; i++ {
		if len(segs[i]) != size {
			t.Fatalf("segment %d: expected hard cut at %d runes, got %d", i, size, len(segs[i]))
		}
	}
}

func TestSplitReconstruction(t *testing.T) {
	texts := []string{
		"First sentence. Second sentence that runs a bit longer.\nA new line here. And more text to push past several window edges without mercy.",
		strings.Repeat("word ", 200),
		"短い文です。 ASCII period wins. " + strings.Repeat("mixed unicode δθλ ", 30),
	}
	for _, text := range texts {
		s := NewSplitter(25)
		segs := s.segments(text)
		if strings.Join(segs, "") != text {
			t.Fatalf("segments do not reconstruct original text")
		}
	}
}

func TestSplitKeepsEmptySegmentsForDenseIndices(t *testing.T) {
	// Whitespace-only window trims to empty but must still occupy a slot.
	size := 5
	text := "abcde     fghij"
	s := NewSplitter(size)

	got := s.Split(text)
	segs := s.segments(text)
	if len(got) != len(segs) {
		t.Fatalf("trimmed output dropped segments: %d vs %d", len(got), len(segs))
	}
	foundEmpty := false
	for _, c := range got {
		if c == "" {
			foundEmpty = true
		}
	}
	if !foundEmpty {
		t.Fatalf("expected an empty trimmed chunk in %q", got)
	}
}

func TestSplitDefaultsTargetSize(t *testing.T) {
	s := NewSplitter(0)
	if s.TargetSize != 1000 {
		t.Fatalf("expected default target size 1000, got %d", s.TargetSize)
	}
}
