package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrEmptyCorpus means no chunks have been ingested at all, while
	// ErrNoRelevantResults means the corpus exists but nothing could be
	// scored for the query. Callers surface different user messages for
	// the two cases.
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrNoRelevantResults = errors.New("no relevant results")

	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
