package moderation

import (
	"context"
	"strings"
)

// DefaultBlockedWords is the built-in profanity list
var DefaultBlockedWords = []string{
	"sugi", "pula", "pizda", "mortii", "fuck", "shit", "idiot", "muie", "retard", "prost",
}

// WordList flags text containing any blocked word, ignoring case
type WordList struct {
	words []string
}

// NewWordList builds a WordList. Empty entries are ignored.
func NewWordList(words []string) *WordList {
	w := &WordList{}
	for _, word := range words {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			w.words = append(w.words, word)
		}
	}
	return w
}

func (w *WordList) Moderate(_ context.Context, text string) Verdict {
	normalized := strings.ToLower(text)
	for _, word := range w.words {
		if strings.Contains(normalized, word) {
			return Unsafe
		}
	}
	return Safe
}
