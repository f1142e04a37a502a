package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the flag and env surface.
type FileConfig struct {
	Query string `yaml:"query"`
	Max   int    `yaml:"max"`

	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
		UA  string `yaml:"ua"`
	} `yaml:"searx"`

	Search struct {
		File string `yaml:"file"`
	} `yaml:"search"`

	Reader struct {
		Host string `yaml:"host"`
		Mode string `yaml:"mode"`
	} `yaml:"reader"`

	Min struct {
		ContentChars int `yaml:"contentChars"`
		Sources      int `yaml:"sources"`
	} `yaml:"min"`

	Fetch struct {
		Timeout      string  `yaml:"timeout"` // Go duration, e.g. "7s"
		RetryTimeout string  `yaml:"retryTimeout"`
		RetryDelay   string  `yaml:"retryDelay"`
		Retries      *int    `yaml:"retries"` // pointer so an explicit 0 survives
		Workers      int     `yaml:"workers"`
		RateLimitRPS float64 `yaml:"rateLimitRPS"`
	} `yaml:"fetch"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Output struct {
		Records string `yaml:"records"`
		Text    string `yaml:"text"`
		PDF     string `yaml:"pdf"`
	} `yaml:"output"`

	Language string `yaml:"language"`
	Verbose  bool   `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file and fills unset fields of cfg,
// keeping flag/env values that are already present. The CLI registers flags
// with zero defaults and applies env before calling this, so the file sits
// below both and above the built-in defaults of applyDefaults.
func LoadConfigFile(path string, cfg *Config) error {
	if path == "" || cfg == nil {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if *dst == 0 && v > 0 {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, v string) {
		if *dst != 0 || v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}

	setString(&cfg.Query, fc.Query)
	setInt(&cfg.MaxResults, fc.Max)
	setString(&cfg.SearxURL, fc.Searx.URL)
	setString(&cfg.SearxKey, fc.Searx.Key)
	setString(&cfg.SearxUA, fc.Searx.UA)
	setString(&cfg.SearchFile, fc.Search.File)
	setString(&cfg.ReaderHost, fc.Reader.Host)
	setString(&cfg.ReaderMode, fc.Reader.Mode)
	setInt(&cfg.MinContentChars, fc.Min.ContentChars)
	setInt(&cfg.MinSources, fc.Min.Sources)
	setDuration(&cfg.RequestTimeout, fc.Fetch.Timeout)
	setDuration(&cfg.RetryTimeout, fc.Fetch.RetryTimeout)
	setDuration(&cfg.RetryDelay, fc.Fetch.RetryDelay)
	if cfg.RetryOnFailure < 0 && fc.Fetch.Retries != nil && *fc.Fetch.Retries >= 0 {
		cfg.RetryOnFailure = *fc.Fetch.Retries
	}
	setInt(&cfg.FetchWorkers, fc.Fetch.Workers)
	if cfg.RateLimitRPS == 0 && fc.Fetch.RateLimitRPS > 0 {
		cfg.RateLimitRPS = fc.Fetch.RateLimitRPS
	}
	setString(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setString(&cfg.RecordsPath, fc.Output.Records)
	setString(&cfg.OutputPath, fc.Output.Text)
	setString(&cfg.OutputPDF, fc.Output.PDF)
	setString(&cfg.Language, fc.Language)
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
