package flow

import "testing"

func TestHasServiceIntent(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"plain question", "what are your opening hours?", false},
		{"empty", "", false},
		{"build request", "I want to build an app", true},
		{"develop request", "can you develop software for my shop", true},
		{"website request", "we need a new website", true},
		{"uppercase keyword", "PLEASE CREATE A SYSTEM FOR US", true},
		{"mixed case", "Could you Make a Tally integration?", true},
		{"keyword inside word", "the appetizers were great", true},
		{"account keyword", "help me with my account", true},
		{"no keywords", "tell me about the documents", false},
		{"greeting", "hello there", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasServiceIntent(tc.message); got != tc.want {
				t.Fatalf("HasServiceIntent(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}
