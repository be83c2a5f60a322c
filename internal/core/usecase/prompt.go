package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/support-assistant/internal/core/domain"
)

func composeGroundedPrompt(question string, sources []domain.ScoredChunk) string {
	var contextText strings.Builder
	for i, s := range sources {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		contextText.WriteString("[Document excerpt]: ")
		contextText.WriteString(s.Chunk.Content)
	}

	return fmt.Sprintf(
		"Answer the user's question based EXCLUSIVELY on the following context:\n%s\n\nUser question: %s",
		contextText.String(),
		question,
	)
}
