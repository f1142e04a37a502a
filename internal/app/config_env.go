package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setInt := func(dst *int, key string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
			*dst = n
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		s := strings.TrimSpace(os.Getenv(key))
		if s == "" {
			return
		}
		// Accept both bare seconds ("7") and Go durations ("750ms").
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
			return
		}
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			*dst = d
		}
	}

	setString(&cfg.SearxURL, "SEARXNG_HOST", "SEARX_URL")
	setString(&cfg.SearxKey, "SEARXNG_KEY", "SEARX_KEY")
	setString(&cfg.SearchFile, "SEARCH_FILE")
	setString(&cfg.ReaderHost, "READER_HOST")
	setString(&cfg.ReaderMode, "READER_MODE")
	setString(&cfg.Language, "LANGUAGE")

	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")

	setInt(&cfg.MaxResults, "MAX_RESULTS")
	setInt(&cfg.MinContentChars, "MIN_CONTENT_CHARS")
	setInt(&cfg.MinSources, "MIN_SOURCES")
	setInt(&cfg.FetchWorkers, "FETCH_WORKERS")

	setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	setDuration(&cfg.RetryTimeout, "RETRY_TIMEOUT")
	setDuration(&cfg.RetryDelay, "RETRY_DELAY")

	// 0 is a meaningful value here (retries disabled), so only a negative
	// "unset" marker lets env supply it.
	if cfg.RetryOnFailure < 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("RETRY_ON_FAILURE"))); err == nil && n >= 0 {
			cfg.RetryOnFailure = n
		}
	}
	if cfg.RateLimitRPS == 0 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")), 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}
