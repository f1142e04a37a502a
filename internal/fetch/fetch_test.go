package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/merlinrag/ragsearch/internal/search"
)

func TestFetchAll_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Later items finish first so completion order differs from input order.
		if strings.HasSuffix(r.URL.Path, "/0") {
			time.Sleep(80 * time.Millisecond)
		}
		fmt.Fprintf(w, "body for %s", r.URL.Path)
	}))
	defer srv.Close()

	hits := make([]search.Result, 4)
	for i := range hits {
		hits[i] = search.Result{Title: fmt.Sprintf("t%d", i), Link: fmt.Sprintf("item/%d", i)}
	}
	c := &Client{ProxyBase: srv.URL, HTTPClient: srv.Client(), Workers: 4}
	out := c.FetchAll(context.Background(), hits)
	if len(out) != len(hits) {
		t.Fatalf("expected %d records, got %d", len(hits), len(out))
	}
	for i, rec := range out {
		if rec.Link != hits[i].Link {
			t.Fatalf("order broken at %d: got link %q want %q", i, rec.Link, hits[i].Link)
		}
		if rec.Content == nil || !strings.Contains(*rec.Content, fmt.Sprintf("item/%d", i)) {
			t.Fatalf("record %d carries wrong content: %v", i, rec.Content)
		}
	}
}

func TestFetchAll_NoLinkShortCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	hits := []search.Result{
		{Title: "linked", Link: "https://example.com/a"},
		{Title: "no link"},
		{Title: "linked too", Link: "https://example.com/b"},
	}
	c := &Client{ProxyBase: srv.URL, HTTPClient: srv.Client()}
	out := c.FetchAll(context.Background(), hits)
	if out[1].Content != nil {
		t.Fatalf("link-less hit must have nil content, got %q", *out[1].Content)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
	for _, i := range []int{0, 2} {
		if out[i].Content == nil || *out[i].Content != "ok" {
			t.Fatalf("record %d missing fetched content: %v", i, out[i].Content)
		}
	}
}

func TestFetchAll_Non200RecordedWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{ProxyBase: srv.URL, HTTPClient: srv.Client(), MaxRetries: 3}
	out := c.FetchAll(context.Background(), []search.Result{{Link: "https://example.com/gone"}})
	if out[0].Content == nil || *out[0].Content != "Error 404" {
		t.Fatalf("expected status sentinel, got %v", out[0].Content)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("non-200 must not be retried, saw %d calls", got)
	}
}

func TestFetchAll_TimeoutRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		fmt.Fprint(w, "recovered")
	}))
	defer srv.Close()

	c := &Client{
		ProxyBase:    srv.URL,
		HTTPClient:   srv.Client(),
		Timeout:      50 * time.Millisecond,
		RetryTimeout: 2 * time.Second,
		RetryDelay:   10 * time.Millisecond,
		MaxRetries:   1,
	}
	out := c.FetchAll(context.Background(), []search.Result{{Link: "https://example.com/slow"}})
	if out[0].Content == nil || *out[0].Content != "recovered" {
		t.Fatalf("expected retry to succeed, got %v", out[0].Content)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestFetchAll_RetriesExhaustedYieldFailureSentinel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, "too late")
	}))
	defer srv.Close()

	c := &Client{
		ProxyBase:    srv.URL,
		HTTPClient:   srv.Client(),
		Timeout:      30 * time.Millisecond,
		RetryTimeout: 30 * time.Millisecond,
		RetryDelay:   5 * time.Millisecond,
		MaxRetries:   1,
	}
	out := c.FetchAll(context.Background(), []search.Result{{Link: "https://example.com/dead"}})
	if out[0].Content == nil || !strings.HasPrefix(*out[0].Content, FailureSentinelPrefix) {
		t.Fatalf("expected failure sentinel, got %v", out[0].Content)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected initial attempt plus one retry, got %d", got)
	}
}

func TestFetchAll_OneFailureDoesNotAbortBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "fine")
	}))
	defer srv.Close()

	hits := []search.Result{
		{Link: "https://example.com/good"},
		{Link: "https://example.com/bad"},
		{Link: "https://example.com/also-good"},
	}
	c := &Client{ProxyBase: srv.URL, HTTPClient: srv.Client()}
	out := c.FetchAll(context.Background(), hits)
	if *out[0].Content != "fine" || *out[2].Content != "fine" {
		t.Fatalf("sibling items affected by failure: %v / %v", out[0].Content, out[2].Content)
	}
	if *out[1].Content != "Error 502" {
		t.Fatalf("expected status sentinel for failing item, got %q", *out[1].Content)
	}
}

func TestFetchAll_RespectsWorkerCap(t *testing.T) {
	var inflight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inflight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inflight.Add(-1)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	hits := make([]search.Result, 10)
	for i := range hits {
		hits[i] = search.Result{Link: fmt.Sprintf("https://example.com/%d", i)}
	}
	c := &Client{ProxyBase: srv.URL, HTTPClient: srv.Client(), Workers: 2}
	c.FetchAll(context.Background(), hits)
	if p := peak.Load(); p > 2 {
		t.Fatalf("worker cap violated: peak concurrency %d", p)
	}
}

func TestFetchAll_EmptyInput(t *testing.T) {
	c := &Client{ProxyBase: "http://localhost:0"}
	if out := c.FetchAll(context.Background(), nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}

func TestDerivedWorkerCount(t *testing.T) {
	c := &Client{}
	if got := c.workers(2); got != 4 {
		t.Fatalf("small batches should floor at 4 workers, got %d", got)
	}
	if got := c.workers(100); got != 16 {
		t.Fatalf("large batches should cap at 16 workers, got %d", got)
	}
	c.Workers = 3
	if got := c.workers(100); got != 3 {
		t.Fatalf("explicit worker count must win, got %d", got)
	}
}
