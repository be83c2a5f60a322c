package ollama

import (
	"fmt"
	"strings"
	"time"
)

// BuildSystemPrompt composes the assistant persona sent with every
// generation. The date is pinned at startup so answers about "today"
// stay consistent within a deployment.
func BuildSystemPrompt(assistantName, companyName string, now time.Time) string {
	assistantName = strings.TrimSpace(assistantName)
	if assistantName == "" {
		assistantName = "the assistant"
	}
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		companyName = "the company"
	}

	return fmt.Sprintf(`You are %s, a friendly support assistant working for %s.
Today's date is %s.
Answer questions concisely and politely. When document excerpts are provided, answer only from them.
If the provided material does not contain the answer, say so instead of guessing.`,
		assistantName,
		companyName,
		now.Format("January 2, 2006"),
	)
}
