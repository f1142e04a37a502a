// Package textutil normalizes fetched page text for prompt inclusion.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	horizontalWS = regexp.MustCompile(`[ \t\f\v]+`)
	lineEndings  = regexp.MustCompile(`\r\n?`)

	// Strips remaining C0 control characters; newlines survive because the
	// line-ending pass runs first and keeps them meaningful.
	controlStripper = runes.Remove(runes.Predicate(func(r rune) bool {
		return r < 0x20 && r != '\n'
	}))
)

// Clean collapses runs of horizontal whitespace into single spaces, normalizes
// line endings to \n, strips control characters and trims the result. It is
// idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = horizontalWS.ReplaceAllString(s, " ")
	s = lineEndings.ReplaceAllString(s, "\n")
	if out, _, err := transform.String(controlStripper, s); err == nil {
		s = out
	}
	return strings.TrimSpace(s)
}

// Ellipsis is appended when Truncate has to cut mid-sentence.
const Ellipsis = "…"

// Truncate limits s to at most limit characters, preferring to end on a
// sentence boundary inside the window. When no boundary exists the raw prefix
// is returned with an ellipsis appended, so the result never exceeds limit
// plus one rune.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := r[:limit]
	// Last sentence-terminal punctuation followed by whitespace wins.
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) && isSentenceEnd(cut[i-1]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}
