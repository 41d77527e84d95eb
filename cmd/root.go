// Package cmd implements the moneymate CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/moneymate/internal/cache"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/llm"
	"github.com/theirongolddev/moneymate/internal/logging"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
	"github.com/theirongolddev/moneymate/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagDir      string
	flagFrom     string
	flagTo       string
	flagPeriod   string
	flagQuiet    bool
	flagLogLevel string
	flagNoCache  bool
)

var rootCmd = &cobra.Command{
	Use:   "moneymate",
	Short: "Scan receipts and see where your money goes",
	Long: "Extract receipts from photos and PDFs into a local expense history,\n" +
		"then summarize spending by category, company and day.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "Working directory holding the receipt store (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Start date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "End date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Named period: day, week, month, year or all")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output and non-error logs")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the scan history database")
}

// env bundles what every command shares: resolved config, the root logger
// and the receipt store.
type env struct {
	cfg   config.Config
	log   zerolog.Logger
	store *store.Store
	scans *cache.Cache // nil with --no-cache or when the database is unavailable
}

// loadEnv resolves configuration and opens the store. Call Close when done.
func loadEnv() (*env, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	if flagDir != "" {
		cfg.General.WorkingDir = flagDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Quiet: flagQuiet})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.WorkingDir(), logging.Component(log, "store"))
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, store: st}
	if !flagNoCache {
		e.scans = openScans(logging.Component(log, "cache"))
	}
	return e, nil
}

// openScans opens the scan history, returning nil when it cannot be used.
// Scanning still works without it; only duplicate detection is lost.
func openScans(log zerolog.Logger) *cache.Cache {
	dir := config.CacheDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Warn().Err(err).Msg("scan history unavailable")
		return nil
	}
	c, err := cache.Open(filepath.Join(dir, cache.FileName))
	if err != nil {
		log.Warn().Err(err).Msg("scan history unavailable")
		return nil
	}
	return c
}

func (e *env) Close() {
	if e.scans != nil {
		_ = e.scans.Close()
	}
}

// llmClient builds the completion client from the [openai] config section.
func (e *env) llmClient() (*llm.Client, error) {
	c, err := llm.New(llm.Config{
		APIKey:  e.cfg.OpenAI.APIKey,
		Model:   e.cfg.OpenAI.Model,
		BaseURL: e.cfg.OpenAI.BaseURL,
		Timeout: e.cfg.Timeout(),
	})
	if errors.Is(err, llm.ErrNoAPIKey) {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY or run `moneymate setup`", err)
	}
	return c, err
}

func (e *env) ingester() (*pipeline.Ingester, error) {
	client, err := e.llmClient()
	if err != nil {
		return nil, err
	}
	in := &pipeline.Ingester{
		Extractor: extract.NewLLMExtractor(client, logging.Component(e.log, "extract")),
		Store:     e.store,
		Model:     client.Model(),
		Logger:    logging.Component(e.log, "ingest"),
	}
	// A nil *cache.Cache must not become a non-nil interface.
	if e.scans != nil {
		in.Cache = e.scans
	}
	return in, nil
}

func (e *env) insightGenerator() (insight.Generator, error) {
	client, err := e.llmClient()
	if err != nil {
		return nil, err
	}
	return insight.NewLLMGenerator(client), nil
}

// dateRange resolves --from/--to, then --period, then the configured default.
func (e *env) dateRange(now time.Time) (model.DateRange, error) {
	if flagFrom != "" || flagTo != "" {
		if flagPeriod != "" {
			return model.DateRange{}, errors.New("--period cannot be combined with --from/--to")
		}
		return model.ParseRange(flagFrom, flagTo)
	}
	period := flagPeriod
	if period == "" {
		period = e.cfg.General.DefaultRange
	}
	return model.RangeForPeriod(period, now)
}

// filtered loads the receipts in the selected range and reports skipped lines.
func (e *env) filtered() ([]model.Receipt, model.DateRange, error) {
	rng, err := e.dateRange(time.Now())
	if err != nil {
		return nil, rng, err
	}
	if w := e.store.Warnings(); len(w) > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d corrupt lines skipped in %s\n", len(w), e.store.Path())
	}
	return e.store.Filter(rng), rng, nil
}

func printEmpty(rng model.DateRange) {
	fmt.Println()
	fmt.Printf("  No receipts found for %s.\n", rng)
	fmt.Println("  Add some with `moneymate scan <files...>`.")
}
