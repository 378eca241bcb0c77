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

	"github.com/spf13/cobra"

	"ggnmatch/internal/catalog"
	"ggnmatch/internal/config"
	"ggnmatch/internal/ggn"
	"ggnmatch/internal/logging"
	"ggnmatch/internal/matching"
	"ggnmatch/internal/metrics"
	"ggnmatch/internal/ratelimit"
	"ggnmatch/internal/report"
	"ggnmatch/internal/resultstore"
)

type matchOptions struct {
	outputPath string
	apiKey     string
	verbose    bool
	silent     bool
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match <catalog.csv>",
		Short: "Match a game catalog against GazelleGames and write an HTML report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(config.WithAPIKey(opts.apiKey))
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMatch(runCtx, cmd, cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "HTML report path (default from config)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "GazelleGames API key (overrides config and GGN_API_KEY)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every decision at debug level")
	cmd.Flags().BoolVarP(&opts.silent, "silent", "s", false, "Only log errors and skip per-game console output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "silent")
	return cmd
}

func runMatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, catalogPath string, opts matchOptions) (err error) {
	levelOverride := ""
	switch {
	case opts.verbose:
		levelOverride = "debug"
	case opts.silent:
		levelOverride = "error"
	}
	base, err := logging.NewFromConfig(cfg, levelOverride, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger := logging.NewComponentLogger(base, "cli")

	cat, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()
	for _, skipped := range cat.Skipped {
		logger.Debug("catalog row skipped",
			logging.Int(logging.FieldRow, skipped.Row),
			logging.String("reason", skipped.Reason),
		)
		recorder.EntrySkipped(matching.Entry{Row: skipped.Row}, skipped.Reason)
	}
	logger.Info("catalog loaded",
		logging.String("path", cat.Path),
		logging.Int("entries", cat.Len()),
		logging.Int("skipped", len(cat.Skipped)),
	)

	client, err := ggn.New(cfg.GGN.APIKey, cfg.GGN.BaseURL,
		ggn.WithTimeout(cfg.RequestTimeout()),
		ggn.WithUserAgent(cfg.GGN.UserAgent),
		ggn.WithLogger(base),
	)
	if err != nil {
		return fmt.Errorf("create ggn client: %w", err)
	}
	limiter, err := ratelimit.New(cfg.RateLimit.Calls, cfg.RateWindow())
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	reportPath := cfg.Output.ReportPath
	if strings.TrimSpace(opts.outputPath) != "" {
		if reportPath, err = config.ExpandPath(strings.TrimSpace(opts.outputPath)); err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
	}
	htmlReport, err := report.Create(reportPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := htmlReport.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close report: %w", closeErr))
		}
	}()
	sinks := []matching.Sink{htmlReport}

	var store *resultstore.Store
	if cfg.Output.ResultsDB != "" {
		store, err = resultstore.Open(cfg.Output.ResultsDB)
		if err != nil {
			return fmt.Errorf("open results db: %w", err)
		}
		defer store.Close()
		runID, err := store.BeginRun(ctx, cat.Path)
		if err != nil {
			return err
		}
		base = base.With(logging.String(logging.FieldRunID, runID))
		logger = logger.With(logging.String(logging.FieldRunID, runID))
		sinks = append(sinks, store)
	}

	out := cmd.OutOrStdout()
	if !opts.silent {
		sinks = append(sinks, newConsoleSink(out))
	}

	engine, err := matching.NewEngine(client, limiter,
		matching.WithSelector(matching.Selector{
			Platforms:          cfg.Matching.Platforms,
			AllowNonSteamLinks: cfg.Matching.AllowNonSteamLinks,
		}),
		matching.WithLogger(base),
		matching.WithObserver(recorder),
		matching.WithGroupURL(client.GroupURL),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	summary, runErr := engine.Run(ctx, cat.Entries(), sinks...)
	summary.Skipped += len(cat.Skipped)
	logRunFinished(logger, summary, runErr, htmlReport.Path())

	// Bookkeeping still happens after an interrupt so the partial run is recorded.
	finishCtx := context.WithoutCancel(ctx)
	if store != nil {
		if finishErr := store.FinishRun(finishCtx, summary); finishErr != nil {
			runErr = errors.Join(runErr, finishErr)
		}
	}
	if cfg.Output.MetricsFile != "" {
		if metricsErr := recorder.WriteTextfile(cfg.Output.MetricsFile); metricsErr != nil {
			runErr = errors.Join(runErr, metricsErr)
		}
	}

	if !opts.silent {
		fmt.Fprintln(out, renderSummary(summary))
		fmt.Fprintf(out, "Report written to %s\n", htmlReport.Path())
	}
	return runErr
}

func logRunFinished(logger *slog.Logger, summary matching.Summary, runErr error, reportPath string) {
	attrs := []logging.Attr{
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("transport_failed", summary.TransportFailed),
		logging.Duration("rate_limit_wait", summary.Waited),
		logging.String("report", reportPath),
	}
	switch {
	case errors.Is(runErr, context.Canceled):
		logger.Warn("run interrupted; report holds the entries processed so far", logging.Args(attrs...)...)
	case runErr != nil:
		logging.ErrorWithContext(logger, "run aborted", "run_aborted", append(attrs, logging.Error(runErr))...)
	default:
		logger.Info("run complete", logging.Args(attrs...)...)
	}
}
