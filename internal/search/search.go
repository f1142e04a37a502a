package search

import (
	"context"
)

// Result represents a single search hit from any provider. Zero values mean
// the provider did not supply the field. Link is the identifying key used by
// later pipeline stages and may be empty.
type Result struct {
	Title    string
	Link     string
	Snippet  string
	Engines  []string // originating engines, when the provider reports them
	Category string
	Source   string // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}
