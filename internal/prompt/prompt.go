// Package prompt renders fetched records into LLM context strings. Sources
// are labeled [S1], [S2], ... so answers can cite them by index.
package prompt

import (
	"fmt"
	"strings"

	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/textutil"
)

// DefaultSnippetOnlyNotice is prepended in degraded mode unless the caller
// supplies its own wording.
const DefaultSnippetOnlyNotice = "Some sources could not be fetched, so only snippets are available. Use them cautiously."

const untitled = "(Untitled)"

var separator = strings.Repeat("-", 60)

// FormatSources turns records into a single context string with full page
// content per source. Numbering is 1-based and strictly sequential over the
// given slice, whatever filtering happened upstream.
func FormatSources(records []fetch.Record) string {
	lines := make([]string, 0, len(records)*6+3)
	lines = append(lines, "You are a careful assistant. Use the SOURCES below to answer the QUESTION.")
	lines = append(lines, "")
	lines = append(lines, "SOURCES:")

	for i, rec := range records {
		title := textutil.Clean(rec.Title)
		if title == "" {
			title = untitled
		}
		header := fmt.Sprintf("[S%d] %s", i+1, title)
		if rec.Category != "" {
			header += fmt.Sprintf(" (category: %s)", rec.Category)
		}
		lines = append(lines, header)
		if link := strings.TrimSpace(rec.Link); link != "" {
			lines = append(lines, "URL: "+link)
		}
		if snippet := textutil.Clean(rec.Snippet); snippet != "" {
			lines = append(lines, "Snippet: "+snippet)
		}
		lines = append(lines, "Content:")
		body := ""
		if rec.Content != nil {
			body = textutil.Clean(*rec.Content)
		}
		if body == "" {
			body = "(empty)"
		}
		lines = append(lines, body)
		lines = append(lines, separator)
	}
	return strings.Join(lines, "\n")
}

// SnippetView is the minimal projection used for snippet-only prompting; it
// deliberately cannot carry page content.
type SnippetView struct {
	Title   string
	Link    string
	Snippet string
}

// ToSnippetView projects records down to title/link/snippet, discarding
// everything else so full content never leaks into the degraded prompt path.
func ToSnippetView(records []fetch.Record) []SnippetView {
	out := make([]SnippetView, 0, len(records))
	for _, rec := range records {
		out = append(out, SnippetView{Title: rec.Title, Link: rec.Link, Snippet: rec.Snippet})
	}
	return out
}

// FormatSnippetOnly builds the degraded-confidence prompt: a cautionary
// notice followed by title, URL and snippet per source.
func FormatSnippetOnly(views []SnippetView, notice string) string {
	if strings.TrimSpace(notice) == "" {
		notice = DefaultSnippetOnlyNotice
	}
	lines := make([]string, 0, len(views)*4+3)
	lines = append(lines, notice)
	lines = append(lines, "")
	lines = append(lines, "SOURCES (snippet-only):")

	for i, v := range views {
		title := textutil.Clean(v.Title)
		if title == "" {
			title = untitled
		}
		lines = append(lines, fmt.Sprintf("[S%d] %s", i+1, title))
		if link := strings.TrimSpace(v.Link); link != "" {
			lines = append(lines, "URL: "+link)
		}
		if snippet := textutil.Clean(v.Snippet); snippet != "" {
			lines = append(lines, "Snippet: "+snippet)
		}
		lines = append(lines, separator)
	}
	return strings.Join(lines, "\n")
}
