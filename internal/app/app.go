package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/merlinrag/ragsearch/internal/answer"
	"github.com/merlinrag/ragsearch/internal/content"
	"github.com/merlinrag/ragsearch/internal/fetch"
	"github.com/merlinrag/ragsearch/internal/llm"
	"github.com/merlinrag/ragsearch/internal/pipeline"
	"github.com/merlinrag/ragsearch/internal/prompt"
	"github.com/merlinrag/ragsearch/internal/search"
)

// App runs one search-and-fetch cycle and writes the resulting artifacts.
type App struct {
	cfg      Config
	pipe     *pipeline.Pipeline
	answerer *answer.Synthesizer
}

func New(cfg Config) (*App, error) {
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("missing query")
	}

	httpClient := newPooledHTTPClient()

	var provider search.Provider
	if cfg.SearchFile != "" {
		provider = &search.FileProvider{Path: cfg.SearchFile}
	} else {
		provider = &search.SearxNG{
			BaseURL:    cfg.SearxURL,
			APIKey:     cfg.SearxKey,
			Language:   cfg.Language,
			HTTPClient: httpClient,
			UserAgent:  cfg.SearxUA,
		}
	}

	fetcher := &fetch.Client{
		ProxyBase:    cfg.ReaderHost,
		UserAgent:    cfg.SearxUA,
		HTTPClient:   httpClient,
		Timeout:      cfg.RequestTimeout,
		RetryTimeout: cfg.RetryTimeout,
		RetryDelay:   cfg.RetryDelay,
		MaxRetries:   cfg.RetryOnFailure,
		Workers:      cfg.FetchWorkers,
		RateLimitRPS: cfg.RateLimitRPS,
	}

	a := &App{
		cfg: cfg,
		pipe: &pipeline.Pipeline{
			Provider:        provider,
			Fetcher:         fetcher,
			ReaderMode:      cfg.ReaderMode,
			MinContentChars: cfg.MinContentChars,
			MinSources:      cfg.MinSources,
		},
	}

	if cfg.LLMBaseURL != "" && cfg.LLMModel != "" {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		transportCfg.BaseURL = cfg.LLMBaseURL
		transportCfg.HTTPClient = httpClient
		a.answerer = &answer.Synthesizer{
			Client: &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)},
			Model:  cfg.LLMModel,
		}
	}

	return a, nil
}

// Run executes the pipeline and writes the requested artifacts. The prompt
// mode follows the run stats: full-content when enough sources survived the
// filter, snippet-only otherwise.
func (a *App) Run(ctx context.Context) error {
	records, stats := a.pipe.Collect(ctx, a.cfg.Query, a.cfg.MaxResults)

	if a.cfg.RecordsPath != "" {
		normalized := pipeline.Normalize(records)
		b, err := json.MarshalIndent(normalized, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal records: %w", err)
		}
		if err := os.WriteFile(a.cfg.RecordsPath, b, 0o644); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
		log.Debug().Str("path", a.cfg.RecordsPath).Int("records", len(normalized)).Msg("wrote records")
	}

	var promptText string
	if stats.SnippetOnly {
		log.Warn().Int("successes", stats.Successes).Int("minSources", a.cfg.MinSources).
			Msg("too few usable sources; falling back to snippet-only prompt")
		promptText = prompt.FormatSnippetOnly(prompt.ToSnippetView(records), "")
	} else {
		kept, _ := content.Filter(records, a.cfg.MinContentChars)
		promptText = prompt.FormatSources(kept)
	}

	output := promptText
	if a.answerer != nil {
		ans, err := a.answerer.Answer(ctx, a.cfg.Query, promptText)
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		output = ans
	}

	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(output+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPath).Msg("wrote output")
	} else {
		fmt.Println(output)
	}

	if a.cfg.OutputPDF != "" {
		if err := writeSimplePDF(output, a.cfg.OutputPDF); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDF).Msg("wrote pdf")
	}

	return nil
}
