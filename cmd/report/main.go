package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sales-report/internal/config"
	apperrors "sales-report/internal/errors"
	"sales-report/internal/exporter"
	"sales-report/internal/observability"
	"sales-report/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run generates one report and returns the process exit code. The report is
// written to stdout only after every stage succeeded.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		err = apperrors.ConfigWrap(err, "failed to load configuration")
		apperrors.Log(logger, "report failed", err)
		return apperrors.ExitCode(err)
	}

	runID := observability.NewRunID()
	logger := observability.NewLogger(cfg.Logger, stderr).With("run_id", runID)
	ctx = observability.WithRunID(ctx, runID)

	logger.Info("starting report",
		"input", cfg.InputPath,
		"top_n", cfg.TopN,
		"window_days", cfg.WindowDays,
	)

	if err := generate(ctx, cfg, logger, stdout); err != nil {
		apperrors.Log(logger, "report failed", err)
		return apperrors.ExitCode(err)
	}
	return 0
}

func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	ctx, span := observability.StartSpan(ctx, "report")
	defer span.End(logger)

	analytics := services.NewAnalytics(
		services.WithLogger(logger),
		services.WithTopN(cfg.TopN),
		services.WithWindow(cfg.Window()),
		services.WithProgressInterval(cfg.ProgressInterval),
	)

	table, err := analytics.LoadFromCSV(ctx, cfg.InputPath)
	if err != nil {
		span.SetError(err)
		return err
	}

	report, err := analytics.BuildReport(ctx, table)
	if err != nil {
		span.SetError(err)
		return err
	}

	if cfg.XLSXPath != "" {
		if err := exporter.WriteXLSX(report, cfg.XLSXPath, logger); err != nil {
			span.SetError(err)
			return err
		}
	}

	var buf bytes.Buffer
	if err := exporter.WriteJSON(&buf, report); err != nil {
		return apperrors.InternalWrap(err, "encode report")
	}
	if _, err := buf.WriteTo(stdout); err != nil {
		return apperrors.InternalWrap(err, "write report")
	}

	logger.Info("report generated", "stats", analytics.Stats())
	return nil
}
