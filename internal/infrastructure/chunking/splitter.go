package chunking

import "strings"

// boundarySlack is how far past the window edge the splitter will look for
// a natural break before hard-cutting. Measured from the window start, so
// a break is accepted up to TargetSize*1.2 runes in.
const boundarySlack = 1.2

type Splitter struct {
	TargetSize int
}

func NewSplitter(targetSize int) *Splitter {
	if targetSize <= 0 {
		targetSize = 1000
	}
	return &Splitter{TargetSize: targetSize}
}

// Split walks the text in windows of TargetSize runes. At each window edge
// that is not end-of-text it searches forward for the nearest sentence
// period, then the nearest newline, accepting either if it falls within the
// slack range; otherwise it hard-cuts at the window edge. Segments are
// trimmed of surrounding whitespace. Empty segments are kept so chunk
// indices stay dense; the pre-trim segments concatenate back to the input.
func (s *Splitter) Split(text string) []string {
	raw := s.segments(text)
	out := make([]string, len(raw))
	for i, seg := range raw {
		out[i] = strings.TrimSpace(seg)
	}
	return out
}

// segments returns the untrimmed cut of the text. Kept separate from Split
// so the exact-reconstruction property is testable.
func (s *Splitter) segments(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	limitOffset := int(float64(s.TargetSize) * boundarySlack)
	out := make([]string, 0, len(runes)/s.TargetSize+1)

	start := 0
	for start < len(runes) {
		end := start + s.TargetSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}

		limit := start + limitOffset
		if limit > len(runes) {
			limit = len(runes)
		}
		if cut := indexRune(runes, '.', end, limit); cut >= 0 {
			end = cut + 1
		} else if cut := indexRune(runes, '\n', end, limit); cut >= 0 {
			end = cut + 1
		}

		out = append(out, string(runes[start:end]))
		start = end
	}
	return out
}

// indexRune finds the first occurrence of r in runes[from:limit].
func indexRune(runes []rune, r rune, from, limit int) int {
	for i := from; i < limit; i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
