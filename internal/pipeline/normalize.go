package pipeline

import (
	"github.com/merlinrag/ragsearch/internal/fetch"
)

// NormalizedRecord is the contract shape handed to collaborators: every key
// is always present when marshalled, with explicit nulls for absent values.
type NormalizedRecord struct {
	Title    string   `json:"title"`
	Link     *string  `json:"link"`
	Snippet  *string  `json:"snippet"`
	Engines  []string `json:"engines"`
	Category *string  `json:"category"`
	Content  *string  `json:"content"`
}

// Normalize coerces fetched records into NormalizedRecords. Missing fields
// default to null rather than being rejected, and each output record is an
// independent value.
func Normalize(records []fetch.Record) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(records))
	for _, rec := range records {
		n := NormalizedRecord{
			Title:    rec.Title,
			Link:     nullableString(rec.Link),
			Snippet:  nullableString(rec.Snippet),
			Category: nullableString(rec.Category),
		}
		if len(rec.Engines) > 0 {
			n.Engines = append([]string(nil), rec.Engines...)
		}
		if rec.Content != nil {
			c := *rec.Content
			n.Content = &c
		}
		out = append(out, n)
	}
	return out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
