package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/merlinrag/ragsearch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath   string
		query        string
		maxResults   int
		searxURL     string
		searxKey     string
		searxUA      string
		searchFile   string
		readerHost   string
		readerMode   string
		language     string
		minChars     int
		minSources   int
		fetchTimeout time.Duration
		retryTimeout time.Duration
		retryDelay   time.Duration
		retries      int
		workers      int
		rateRPS      float64
		llmBaseURL   string
		llmModel     string
		llmKey       string
		outRecords   string
		outText      string
		outPDF       string
		verbose      bool
	)

	// Flags default to zero values so that leaving one off lets env and the
	// config file fill it in; resolution order is flags, then env, then file,
	// with built-in defaults applied last.
	flag.StringVar(&configPath, "config", "", "Path to optional YAML config file")
	flag.StringVar(&query, "q", "", "Search query")
	flag.IntVar(&maxResults, "k", 0, "Maximum search results to request (default 10)")
	flag.StringVar(&searxURL, "searx.url", "", "SearxNG base URL")
	flag.StringVar(&searxKey, "searx.key", "", "SearxNG API key (optional)")
	flag.StringVar(&searxUA, "searx.ua", "", "User-Agent for searx and proxy requests (default ragsearch/0.1)")
	flag.StringVar(&searchFile, "search.file", "", "Path to JSON file for offline file-based search provider")
	flag.StringVar(&readerHost, "reader.host", "", "Reader proxy base URL")
	flag.StringVar(&readerMode, "reader.mode", "", "Reader mode: 'proxy' (raw HTML) or 'reader' (rendered text)")
	flag.StringVar(&language, "lang", "", "Optional search language hint, e.g. 'en' or 'fi'")
	flag.IntVar(&minChars, "min.contentChars", 0, "Minimum cleaned content characters to keep a source (default 400)")
	flag.IntVar(&minSources, "min.sources", 0, "Minimum kept sources before falling back to snippet-only prompting (default 2)")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Per-request timeout for the first attempt (default 7s)")
	flag.DurationVar(&retryTimeout, "fetch.retryTimeout", 0, "Per-request timeout for retry attempts (default 10s)")
	flag.DurationVar(&retryDelay, "fetch.retryDelay", 0, "Base delay between retries, grows multiplicatively (default 750ms)")
	flag.IntVar(&retries, "fetch.retries", -1, "Retries per item beyond the first attempt; 0 disables (default 1)")
	flag.IntVar(&workers, "fetch.workers", 0, "Maximum concurrent fetch workers (default 8)")
	flag.Float64Var(&rateRPS, "fetch.rps", 0, "Global fetch rate limit in requests/second (0 disables)")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL; enables the answer step")
	flag.StringVar(&llmModel, "llm.model", "", "Model name for the answer step")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the OpenAI-compatible server")
	flag.StringVar(&outRecords, "out.records", "", "Path to write normalized records as JSON")
	flag.StringVar(&outText, "out.text", "", "Path to write the prompt or answer text (stdout when empty)")
	flag.StringVar(&outPDF, "out.pdf", "", "Path to additionally render the text output as PDF")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	cfg := app.Config{
		Query:           query,
		MaxResults:      maxResults,
		SearxURL:        searxURL,
		SearxKey:        searxKey,
		SearxUA:         searxUA,
		SearchFile:      searchFile,
		ReaderHost:      readerHost,
		ReaderMode:      readerMode,
		Language:        language,
		MinContentChars: minChars,
		MinSources:      minSources,
		RequestTimeout:  fetchTimeout,
		RetryTimeout:    retryTimeout,
		RetryDelay:      retryDelay,
		RetryOnFailure:  retries,
		FetchWorkers:    workers,
		RateLimitRPS:    rateRPS,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		RecordsPath:     outRecords,
		OutputPath:      outText,
		OutputPDF:       outPDF,
		Verbose:         verbose,
	}
	app.ApplyEnvToConfig(&cfg)
	if err := app.LoadConfigFile(configPath, &cfg); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("config file")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
