package flow

import "strings"

// serviceKeywords marks messages that read like a request to have
// something built. Substring matching is deliberately loose: a false
// positive only starts the contact flow, which the user can always
// question or cancel out of.
var serviceKeywords = []string{
	"develop", "build", "make", "create", "application",
	"app", "website", "software", "project", "system",
	"tally", "account", "service", "need",
}

// HasServiceIntent reports whether the message signals commercial intent.
func HasServiceIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range serviceKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
