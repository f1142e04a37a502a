// Package fetch retrieves page content for search hits through a reader
// proxy, concurrently and with bounded retries. Failures are recorded in-band
// on each record rather than raised, so one bad URL never aborts a batch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/merlinrag/ragsearch/internal/search"
)

// Record is a search hit augmented with fetched page content. Content is nil
// when the hit had no link; otherwise it holds the response body or one of
// the error sentinels below.
type Record struct {
	search.Result
	Content *string
}

// Sentinel prefixes embedded in Content when a fetch fails. The content
// filter matches on these same prefixes.
const (
	StatusSentinelPrefix  = "Error "
	FailureSentinelPrefix = "Request failed: "
)

// StatusSentinel is recorded for a non-200 proxy response.
func StatusSentinel(code int) string {
	return fmt.Sprintf("%s%d", StatusSentinelPrefix, code)
}

// FailureSentinel is recorded when a request errors out, transiently past the
// retry budget or terminally.
func FailureSentinel(err error) string {
	return FailureSentinelPrefix + err.Error()
}

const backoffFactor = 1.25

// Client fetches URLs through a reader proxy. The zero value is not usable;
// at minimum ProxyBase must be set.
type Client struct {
	// ProxyBase is the reader proxy prefix; the target URL is appended after
	// exactly one path separator.
	ProxyBase string
	UserAgent string
	// HTTPClient is shared across workers for connection pooling. When nil a
	// plain client is used.
	HTTPClient *http.Client

	// Timeout bounds the first attempt per item; RetryTimeout bounds retry
	// attempts, which are given longer to finish.
	Timeout      time.Duration
	RetryTimeout time.Duration
	// RetryDelay is the sleep before the first retry; later retries grow by
	// backoffFactor per attempt.
	RetryDelay time.Duration
	// MaxRetries counts attempts beyond the first. Only transient transport
	// errors are retried; non-200 statuses never are.
	MaxRetries int
	// Workers caps pool concurrency. When zero the cap is derived from the
	// batch size and clamped to a small constant.
	Workers int
	// RateLimitRPS applies a global request rate across workers. <=0 disables.
	RateLimitRPS float64
}

func (c *Client) timeout(attempt int) time.Duration {
	if attempt > 0 {
		if c.RetryTimeout > 0 {
			return c.RetryTimeout
		}
		return 10 * time.Second
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 7 * time.Second
}

func (c *Client) retryDelay() time.Duration {
	if c.RetryDelay > 0 {
		return c.RetryDelay
	}
	return 750 * time.Millisecond
}

func (c *Client) workers(batch int) int {
	if c.Workers > 0 {
		return c.Workers
	}
	// Scale with batch size but cap to avoid thrashing the proxy.
	n := (batch + 1) / 2
	if n < 4 {
		n = 4
	}
	if n > 16 {
		n = 16
	}
	return n
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}

// FetchAll fetches content for every hit and returns one record per input in
// the same order, regardless of completion order or per-item failures. Hits
// without a link short-circuit to a nil-content record and no network call.
func (c *Client) FetchAll(ctx context.Context, hits []search.Result) []Record {
	out := make([]Record, len(hits))
	if len(hits) == 0 {
		return out
	}

	proxyBase := strings.TrimRight(c.ProxyBase, "/") + "/"

	var limiter *rate.Limiter
	if c.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.RateLimitRPS), 1)
	}

	type job struct {
		idx int
		hit search.Result
	}
	type completion struct {
		idx int
		rec Record
	}

	workers := c.workers(len(hits))
	if workers > len(hits) {
		workers = len(hits)
	}
	jobs := make(chan job)
	done := make(chan completion, workers)

	for i := 0; i < workers; i++ {
		go func() {
			for j := range jobs {
				done <- completion{idx: j.idx, rec: c.fetchOne(ctx, proxyBase, j.hit, limiter)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, h := range hits {
			jobs <- job{idx: i, hit: h}
		}
	}()

	// Index-addressed collection restores input order without locks.
	for range hits {
		comp := <-done
		out[comp.idx] = comp.rec
	}
	return out
}

// fetchOne runs the attempt loop for a single hit and always returns a
// record; errors end up as sentinel content.
func (c *Client) fetchOne(ctx context.Context, proxyBase string, hit search.Result, limiter *rate.Limiter) Record {
	rec := Record{Result: hit}
	if hit.Link == "" {
		return rec
	}
	target := proxyBase + hit.Link

	delay := c.retryDelay()
	for attempt := 0; ; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				s := FailureSentinel(err)
				rec.Content = &s
				return rec
			}
		}
		body, status, err := c.tryOnce(ctx, target, c.timeout(attempt))
		if err == nil {
			var s string
			if status == http.StatusOK {
				s = string(body)
			} else {
				s = StatusSentinel(status)
			}
			rec.Content = &s
			return rec
		}
		if !isTransient(err) || attempt >= c.MaxRetries {
			s := FailureSentinel(err)
			rec.Content = &s
			return rec
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			s := FailureSentinel(ctx.Err())
			rec.Content = &s
			return rec
		}
		delay = time.Duration(float64(delay) * backoffFactor)
	}
}

func (c *Client) tryOnce(ctx context.Context, url string, timeout time.Duration) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// isTransient reports whether err looks like a timeout, connection failure or
// truncated transfer worth retrying. Anything else is terminal.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
