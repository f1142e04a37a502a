package aggregate

import (
	"github.com/merlinrag/ragsearch/internal/search"
)

// DedupeByLink keeps only the first occurrence of each unique link, preserving
// input order. Hits without a link are always retained since they cannot be
// identified as duplicates of anything.
func DedupeByLink(hits []search.Result) []search.Result {
	seen := map[string]struct{}{}
	out := make([]search.Result, 0, len(hits))
	for _, h := range hits {
		if h.Link == "" {
			out = append(out, h)
			continue
		}
		if _, ok := seen[h.Link]; ok {
			continue
		}
		seen[h.Link] = struct{}{}
		out = append(out, h)
	}
	return out
}
