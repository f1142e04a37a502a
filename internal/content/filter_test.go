package content

import (
	"strings"
	"testing"

	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/search"
)

func strptr(s string) *string { return &s }

func TestIsFailed(t *testing.T) {
	cases := []struct {
		name    string
		content *string
		want    bool
	}{
		{"nil", nil, true},
		{"empty", strptr(""), true},
		{"whitespace", strptr("  "), true},
		{"request failure", strptr("Request failed: timeout"), true},
		{"http error", strptr("Error 404"), true},
		{"leading whitespace before sentinel", strptr("  Error 503"), true},
		{"real text", strptr("Real article text about saunas."), false},
	}
	for _, tc := range cases {
		if got := IsFailed(tc.content); got != tc.want {
			t.Errorf("%s: IsFailed = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilter_Partition(t *testing.T) {
	long := strings.Repeat("long enough content. ", 30)
	records := []fetch.Record{
		{Result: search.Result{Link: "u1"}, Content: strptr(long)},
		{Result: search.Result{Link: "u2"}, Content: strptr("Request failed: connection reset")},
		{Result: search.Result{Link: "u3"}, Content: strptr("tiny")},
		{Result: search.Result{Link: "u4"}},
		{Result: search.Result{Link: "u5"}, Content: strptr(long)},
	}
	kept, dropped := Filter(records, 400)
	if len(kept)+len(dropped) != len(records) {
		t.Fatalf("partition lost records: %d + %d != %d", len(kept), len(dropped), len(records))
	}
	if len(kept) != 2 || kept[0].Link != "u1" || kept[1].Link != "u5" {
		t.Fatalf("unexpected kept set: %#v", kept)
	}
	if dropped[0].Link != "u2" || dropped[1].Link != "u3" || dropped[2].Link != "u4" {
		t.Fatalf("dropped order not preserved: %#v", dropped)
	}
}

func TestFilter_LengthMeasuredAfterCleaning(t *testing.T) {
	// Raw length is inflated by whitespace the cleaner collapses away.
	padded := strings.Repeat("word      ", 50)
	records := []fetch.Record{{Result: search.Result{Link: "u1"}, Content: strptr(padded)}}
	kept, dropped := Filter(records, 300)
	if len(kept) != 0 || len(dropped) != 1 {
		t.Fatalf("cleaned length should fall short of threshold: kept=%d", len(kept))
	}
}
