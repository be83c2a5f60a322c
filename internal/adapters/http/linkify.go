package httpadapter

import (
	"fmt"
	"regexp"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<]+`)

// makeLinksClickable rewrites bare URLs in a bot reply as HTML anchors
// so the chat widget renders them as links.
func makeLinksClickable(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(url string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, url)
	})
}
