// Package content separates usable page content from fetch failures and
// near-empty pages.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/textutil"
)

// IsFailed reports whether content looks like a fetch error. Missing and
// whitespace-only content counts as failed too.
func IsFailed(content *string) bool {
	if content == nil {
		return true
	}
	s := strings.TrimSpace(*content)
	if s == "" {
		return true
	}
	return strings.HasPrefix(s, fetch.FailureSentinelPrefix) ||
		strings.HasPrefix(s, fetch.StatusSentinelPrefix)
}

// Filter partitions records into those with usable content (not failed, and
// at least minChars characters after cleanup) and the rest. Relative input
// order is preserved on both sides and every record lands on exactly one.
func Filter(records []fetch.Record, minChars int) (kept, dropped []fetch.Record) {
	kept = make([]fetch.Record, 0, len(records))
	dropped = make([]fetch.Record, 0)
	for _, rec := range records {
		if IsFailed(rec.Content) {
			dropped = append(dropped, rec)
			continue
		}
		cleaned := textutil.Clean(*rec.Content)
		if utf8.RuneCountInString(cleaned) >= minChars {
			kept = append(kept, rec)
		} else {
			dropped = append(dropped, rec)
		}
	}
	return kept, dropped
}
