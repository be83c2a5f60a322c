// Package extractor routes a stored document to the extractor that
// understands its format.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

type Router struct {
	pdf  ports.TextExtractor
	text ports.TextExtractor
}

func NewRouter(pdf, text ports.TextExtractor) *Router {
	return &Router{pdf: pdf, text: text}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if isPDF(doc) {
		return r.pdf.Extract(ctx, doc)
	}
	return r.text.Extract(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	if strings.EqualFold(doc.MimeType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
