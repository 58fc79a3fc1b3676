package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/aisearch/internal/browser"
	"github.com/nao1215/aisearch/internal/config"
	"github.com/nao1215/aisearch/internal/database"
	"github.com/nao1215/aisearch/internal/log"
	"github.com/nao1215/aisearch/internal/model"
	"github.com/nao1215/aisearch/internal/pipeline"
	"github.com/nao1215/aisearch/internal/report"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]...",
		Short: "Run one or more answer extractions",
		Long: `Search sends each query to the provider's AI answer mode, waits for the
generated answer, and writes it as a markdown document with numbered
citation footnotes.

Queries come either from positional arguments (one extraction per
argument) or from the structured --topic/--city/--plz flags, which build
a single query.

Examples:
  # One query
  aisearch search "mietspiegel dresden 2026"

  # Structured query: "mietspiegel dresden 01067"
  aisearch search --topic mietspiegel --city dresden --plz 01067

  # Several queries, two at a time, saved into the results directory
  aisearch search --save --batch 2 "frage eins" "frage zwei" "frage drei"

  # Visible browser for solving a CAPTCHA by hand
  aisearch search --show-browser "mietspiegel dresden 2026"`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearchCmd,
	}

	// Query construction flags
	cmd.Flags().String("topic", "", "Topic part of a structured query")
	cmd.Flags().String("city", "", "City part of a structured query")
	cmd.Flags().String("plz", "", "Postal code appended to a structured query")

	// Browser behavior flags
	cmd.Flags().Bool("show-browser", false,
		"Run a visible browser window (lets you solve CAPTCHAs by hand)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent extractions when several queries are given")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write the result document to this path (single query only)")
	cmd.Flags().BoolP("save", "s", false,
		"Save results into the data directory with timestamped names")
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON sidecar with the full result next to each document")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .aisearch in current or home directory)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, queries, err := buildSearchConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runSearch(ctx, cfg, queries, logger)
	if ctx.Err() != nil {
		return &exitError{code: model.ExitInterrupted, msg: "interrupted"}
	}
	return err
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildSearchConfig creates a Config and the query list from flags.
func buildSearchConfig(cmd *cobra.Command, args []string) (*config.Config, []string, error) {
	cfg := config.NewConfig()

	var err error

	showBrowser, err := cmd.Flags().GetBool("show-browser")
	if err != nil {
		return nil, nil, err
	}
	cfg.Headless = !showBrowser

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	cfg.SaveToResults, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, nil, err
	}

	cfg.JSONSidecar, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}

	cfg.NoHistory, err = cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	// Load overrides from the config file. An explicitly named file must
	// exist; the default search locations may come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		overrides, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		overrides.Apply(cfg)
	} else if explicitConfigPath {
		return nil, nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	queries, err := collectQueries(cmd, args)
	if err != nil {
		return nil, nil, err
	}

	if cfg.OutputPath != "" && len(queries) > 1 {
		return nil, nil, errors.New("--output applies to a single query; use --save for several")
	}

	return cfg, queries, nil
}

// collectQueries merges positional queries with the structured flags.
func collectQueries(cmd *cobra.Command, args []string) ([]string, error) {
	topic, err := cmd.Flags().GetString("topic")
	if err != nil {
		return nil, err
	}
	city, err := cmd.Flags().GetString("city")
	if err != nil {
		return nil, err
	}
	plz, err := cmd.Flags().GetString("plz")
	if err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(args)+1)
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			queries = append(queries, arg)
		}
	}

	if topic != "" || city != "" || plz != "" {
		structured := model.BuildQuery(topic, city, plz)
		if structured == "" {
			return nil, config.ErrNoQuery
		}
		queries = append(queries, structured)
	}

	if len(queries) == 0 {
		return nil, config.ErrNoQuery
	}
	return queries, nil
}

// runSearch launches the browser and runs all extractions.
func runSearch(ctx context.Context, cfg *config.Config, queries []string, logger *slog.Logger) error {
	logger.Info("starting extraction",
		"queries", len(queries),
		"headless", cfg.Headless,
		"batch", cfg.BatchSize,
	)

	session, err := browser.NewSession(browser.Options{
		Headless:   cfg.Headless,
		ProfileDir: config.ProfileDir(),
		UserAgent:  config.DefaultUserAgent,
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Debug("browser close failed", "error", err)
		}
	}()

	extractions := make([]*model.Extraction, 0, len(queries))
	for _, q := range queries {
		req := model.NewExtractionRequest(q)
		extractions = append(extractions, model.NewExtraction(req, req.SearchURL(cfg.SearchEndpoint, cfg.AnswerModeFlag)))
	}

	pageOpts := browser.Options{UserAgent: config.DefaultUserAgent}

	if len(extractions) == 1 {
		if err := runSingle(ctx, session, pageOpts, cfg, extractions[0], logger); err != nil {
			return err
		}
	} else {
		bp := pipeline.NewBatchProcessor(
			func(_ context.Context) (browser.Page, error) {
				return session.NewPage(pageOpts)
			},
			func(page browser.Page) *pipeline.Pipeline {
				return pipeline.DefaultPipeline(page, cfg, pipeline.WithLogger(logger))
			},
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		if err := bp.ProcessBatch(ctx, extractions); err != nil {
			return err
		}
	}

	return finishExtractions(ctx, cfg, extractions, logger)
}

// runSingle executes one extraction on one page.
func runSingle(ctx context.Context, session *browser.Session, pageOpts browser.Options, cfg *config.Config, ex *model.Extraction, logger *slog.Logger) error {
	page, err := session.NewPage(pageOpts)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("page close failed", "error", err)
		}
	}()

	return pipeline.DefaultPipeline(page, cfg, pipeline.WithLogger(logger)).Execute(ctx, ex)
}

// finishExtractions writes result files, records history, and prints the
// per-run summaries. The process exit code reflects the first failed run.
func finishExtractions(ctx context.Context, cfg *config.Config, extractions []*model.Extraction, logger *slog.Logger) error {
	var history *database.HistoryDB
	if !cfg.NoHistory {
		var err error
		history, err = database.Open(config.HistoryDir(), database.DefaultOptions())
		if err != nil {
			// History is best effort; a broken database must not discard a
			// finished extraction.
			logger.Warn("history database unavailable", "error", err)
		} else {
			defer history.Close()
		}
	}

	writerOpts := make([]report.FileWriterOption, 0, 3)
	if cfg.OutputPath != "" {
		writerOpts = append(writerOpts, report.WithOutputPath(cfg.OutputPath))
	}
	if cfg.SaveToResults {
		writerOpts = append(writerOpts, report.WithResultsDir(config.ResultsDir()))
	}
	writerOpts = append(writerOpts, report.WithJSONSidecar(cfg.JSONSidecar), report.WithWriterLogger(logger))
	writer := report.NewFileWriter(writerOpts...)
	summary := report.NewSummaryWriter(os.Stdout)

	var firstFailure model.ErrorKind
	for _, ex := range extractions {
		result := ex.Result()

		if history != nil {
			if _, err := history.Save(ctx, result); err != nil {
				logger.Warn("failed to record history", "query", result.Query, "error", err)
			}
		}

		if result.Success {
			path, err := writer.Write(ex.Request, result)
			if err != nil {
				return err
			}
			fmt.Printf("Result written to %s\n\n", path)
			fmt.Println(report.Preview(result.Markdown, 500))
			fmt.Println()
		} else if firstFailure == model.ErrorKindNone {
			firstFailure = result.Error
		}

		if err := summary.Write(result); err != nil {
			logger.Warn("failed to render summary", "query", result.Query, "error", err)
		}
	}

	if firstFailure != model.ErrorKindNone {
		return &exitError{code: firstFailure.ExitCode(), msg: ""}
	}
	return nil
}
