package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/search"
	"github.com/merlinrag/ragsearch/internal/textutil"
)

// Quick manual check of a SearxNG + reader proxy deployment: run one search,
// fetch the first hit through the proxy and print what came back.
func main() {
	searxBase := os.Getenv("SEARXNG_HOST")
	if searxBase == "" {
		searxBase = "http://localhost:8080"
	}
	readerBase := os.Getenv("READER_HOST")
	if readerBase == "" {
		readerBase = "http://localhost:3001"
	}
	q := "finnish sauna culture"
	if len(os.Args) > 1 {
		q = os.Args[1]
	}

	client := &http.Client{Timeout: 20 * time.Second}
	prov := &search.SearxNG{BaseURL: searxBase, HTTPClient: client, UserAgent: "debugsearch/1.0"}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	hits, err := prov.Search(ctx, q, 5)
	fmt.Println("search err:", err)
	for i, h := range hits {
		fmt.Printf("%d. %s — %s\n", i+1, h.Title, h.Link)
	}
	if len(hits) == 0 {
		return
	}

	fc := &fetch.Client{ProxyBase: readerBase, HTTPClient: client, UserAgent: "debugsearch/1.0", MaxRetries: 1}
	records := fc.FetchAll(ctx, hits[:1])
	for _, r := range records {
		if r.Content == nil {
			fmt.Println("content: <nil>")
			continue
		}
		body := textutil.Truncate(*r.Content, 400)
		fmt.Printf("content (%d bytes):\n%s\n", len(*r.Content), body)
	}
}
