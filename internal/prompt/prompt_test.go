package prompt

import (
	"strings"
	"testing"

	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/search"
)

func strptr(s string) *string { return &s }

func TestFormatSources_LabelsAndContent(t *testing.T) {
	records := []fetch.Record{
		{
			Result:  search.Result{Title: "Sauna culture", Link: "https://example.com/sauna", Snippet: "steam bathing", Category: "general"},
			Content: strptr("Long article body about sauna traditions."),
		},
		{
			Result: search.Result{Link: "https://example.com/untitled"},
		},
	}
	got := FormatSources(records)

	for _, want := range []string{
		"[S1] Sauna culture (category: general)",
		"URL: https://example.com/sauna",
		"Snippet: steam bathing",
		"Long article body about sauna traditions.",
		"[S2] (Untitled)",
		"(empty)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if !strings.HasPrefix(got, "You are a careful assistant.") {
		t.Errorf("missing preamble:\n%s", got)
	}
}

func TestFormatSources_SequentialNumbering(t *testing.T) {
	records := []fetch.Record{
		{Result: search.Result{Title: "a", Link: "u1"}},
		{Result: search.Result{Title: "b", Link: "u2"}},
		{Result: search.Result{Title: "c", Link: "u3"}},
	}
	got := FormatSources(records)
	for _, label := range []string{"[S1] a", "[S2] b", "[S3] c"} {
		if !strings.Contains(got, label) {
			t.Fatalf("expected label %q in output", label)
		}
	}
}

func TestFormatSnippetOnly_NeverIncludesContent(t *testing.T) {
	secret := "FULL PAGE CONTENT THAT MUST NOT LEAK"
	records := []fetch.Record{
		{
			Result:  search.Result{Title: "Leaky", Link: "https://example.com/x", Snippet: "just a snippet"},
			Content: strptr(secret),
		},
	}
	got := FormatSnippetOnly(ToSnippetView(records), "")
	if strings.Contains(got, secret) {
		t.Fatalf("snippet-only prompt leaked content:\n%s", got)
	}
	if !strings.Contains(got, DefaultSnippetOnlyNotice) {
		t.Fatalf("missing default notice:\n%s", got)
	}
	if !strings.Contains(got, "Snippet: just a snippet") {
		t.Fatalf("missing snippet line:\n%s", got)
	}
}

func TestFormatSnippetOnly_CustomNotice(t *testing.T) {
	got := FormatSnippetOnly(nil, "Handle with care.")
	if !strings.HasPrefix(got, "Handle with care.") {
		t.Fatalf("custom notice not used:\n%s", got)
	}
}

func TestToSnippetView_DropsExtraFields(t *testing.T) {
	records := []fetch.Record{
		{
			Result:  search.Result{Title: "t", Link: "l", Snippet: "s", Engines: []string{"wikipedia"}, Category: "general"},
			Content: strptr("body"),
		},
	}
	views := ToSnippetView(records)
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.Title != "t" || v.Link != "l" || v.Snippet != "s" {
		t.Fatalf("projection wrong: %#v", v)
	}
}
