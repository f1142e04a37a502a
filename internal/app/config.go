package app

import "time"

// Config holds runtime configuration for one run. Values are resolved from
// flags, environment and an optional config file before New is called; zero
// values fall back to defaults in applyDefaults.
type Config struct {
	// Query and result cap for the search stage.
	Query      string
	MaxResults int

	// Search
	SearxURL   string
	SearxKey   string
	SearxUA    string
	SearchFile string // offline JSON provider, used instead of SearxNG when set
	Language   string

	// Reader proxy
	ReaderHost string
	ReaderMode string // "proxy" (raw HTML) or "reader" (rendered text)

	// Filtering / prompting
	MinContentChars int
	MinSources      int

	// Fetch behavior. RetryOnFailure counts retries beyond the first attempt;
	// 0 disables retries and a negative value means "unset" (defaults to 1).
	RequestTimeout time.Duration
	RetryTimeout   time.Duration
	RetryDelay     time.Duration
	RetryOnFailure int
	FetchWorkers   int
	RateLimitRPS   float64

	// LLM (optional; the answer step runs only when BaseURL and Model are set)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Outputs
	RecordsPath string // normalized records as JSON
	OutputPath  string // prompt or answer text; stdout when empty
	OutputPDF   string

	Verbose bool
}

func (cfg *Config) applyDefaults() {
	if cfg.SearxURL == "" {
		cfg.SearxURL = "http://localhost:8080"
	}
	if cfg.ReaderHost == "" {
		cfg.ReaderHost = "http://localhost:3001"
	}
	if cfg.ReaderMode == "" {
		cfg.ReaderMode = "proxy"
	}
	if cfg.SearxUA == "" {
		cfg.SearxUA = "ragsearch/0.1"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.MinContentChars <= 0 {
		cfg.MinContentChars = 400
	}
	if cfg.MinSources <= 0 {
		cfg.MinSources = 2
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 7 * time.Second
	}
	if cfg.RetryTimeout <= 0 {
		cfg.RetryTimeout = 10 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 750 * time.Millisecond
	}
	if cfg.RetryOnFailure < 0 {
		cfg.RetryOnFailure = 1
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = 8
	}
}
