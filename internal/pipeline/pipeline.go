// Package pipeline composes search, de-duplication, concurrent fetch and
// normalization into the search_and_fetch operation and reports a run
// summary for observability.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/merlinrag/ragsearch/internal/aggregate"
	"github.com/merlinrag/ragsearch/internal/content"
	"github.com/merlinrag/ragsearch/internal/extract"
	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/search"
)

// Reader proxy modes. In raw-proxy mode the proxy returns page markup and the
// pipeline extracts readable text; in reader mode the proxy already renders
// text and the body is used as-is.
const (
	ModeProxy  = "proxy"
	ModeReader = "reader"
)

// Stats summarizes one pipeline run. It is observability output only and
// never alters the returned records; SnippetOnly signals that the caller
// should prefer the snippet-only prompt variant.
type Stats struct {
	Searched    int
	Deduped     int
	Fetched     int
	Successes   int
	Failures    int
	SnippetOnly bool
}

// Pipeline wires a search provider to the proxied fetcher. Configuration is
// explicit so tests can run isolated instances.
type Pipeline struct {
	Provider search.Provider
	Fetcher  *fetch.Client
	// ReaderMode is ModeProxy or ModeReader; empty defaults to ModeProxy.
	ReaderMode string
	// MinContentChars is the kept-content threshold after cleaning.
	MinContentChars int
	// MinSources is the kept-record count below which SnippetOnly is set.
	MinSources int
}

// Collect runs search → dedupe → fetch → extract and returns the fetched
// records with run statistics. A provider failure is logged and degrades to
// an empty batch; per-item fetch failures stay in-band on their records.
func (p *Pipeline) Collect(ctx context.Context, query string, k int) ([]fetch.Record, Stats) {
	var stats Stats

	hits, err := p.Provider.Search(ctx, query, k)
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Provider.Name()).Str("query", query).
			Msg("search provider failed; continuing with zero hits")
		hits = nil
	}
	stats.Searched = len(hits)

	deduped := aggregate.DedupeByLink(hits)
	stats.Deduped = len(deduped)

	records := p.Fetcher.FetchAll(ctx, deduped)
	stats.Fetched = len(records)

	if p.ReaderMode != ModeReader {
		records = extractHTML(records)
	}

	kept, dropped := content.Filter(records, p.MinContentChars)
	stats.Successes = len(kept)
	stats.Failures = len(dropped)
	stats.SnippetOnly = stats.Successes < p.MinSources

	logRunSummary(stats)
	return records, stats
}

// SearchAndFetch is the external entry point: it runs Collect and coerces the
// records into the normalized contract shape.
func (p *Pipeline) SearchAndFetch(ctx context.Context, query string, k int) ([]NormalizedRecord, Stats) {
	records, stats := p.Collect(ctx, query, k)
	return Normalize(records), stats
}

// extractHTML replaces HTML bodies with readable text. Sentinel and nil
// content passes through untouched so failure signatures stay detectable.
func extractHTML(records []fetch.Record) []fetch.Record {
	out := make([]fetch.Record, len(records))
	for i, rec := range records {
		if rec.Content != nil && !content.IsFailed(rec.Content) && extract.LooksLikeHTML(*rec.Content) {
			text := extract.Text(*rec.Content)
			rec.Content = &text
		}
		out[i] = rec
	}
	return out
}

func logRunSummary(s Stats) {
	log.Info().
		Int("searched", s.Searched).
		Int("deduped", s.Deduped).
		Int("fetched", s.Fetched).
		Int("successes", s.Successes).
		Int("failures", s.Failures).
		Bool("snippet_only", s.SnippetOnly).
		Msg("search_and_fetch summary")
}
