package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/core"
	"github.com/saturnines/catalog-export/pkg/ctxlog"
)

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not loaded", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// run parses flags, loads the config and runs one export.
func run(ctx context.Context, args []string, logW io.Writer) error {
	flagSet := flag.NewFlagSet("catalog-export", flag.ContinueOnError)
	flagSet.SetOutput(logW)

	configPath := flagSet.String("config", "", "Path to the export YAML config. Without it SHOPIFY_GRAPHQL_URL and SHOPIFY_ACCESS_TOKEN are used.")
	logLevel := flagSet.String("log-level", "info", "Logging level: debug, info, warn or error.")
	logFormat := flagSet.String("log-format", "text", "Log output format: text or json.")
	fromSnapshots := flagSet.Bool("from-snapshots", false, "Rebuild the table from existing snapshots without querying the API.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, err: err}
	}

	logger, err := newLogger(*logLevel, *logFormat, logW)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	loader := config.NewDefaultLoader()
	var cfg *config.Export
	if *configPath != "" {
		cfg, err = loader.Load(*configPath)
	} else {
		cfg, err = loader.FromEnv()
	}
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("load config: %w", err)}
	}

	var report *core.Report
	if *fromSnapshots {
		report, err = core.NewExporter(cfg, nil).RunFromSnapshots(ctx)
	} else {
		connector, cerr := core.NewConnector(cfg)
		if cerr != nil {
			return &exitError{code: 2, err: cerr}
		}
		report, err = core.NewExporter(cfg, connector).Run(ctx)
	}
	if err != nil {
		return err
	}

	for _, p := range report.Partitions {
		logger.Info("partition",
			"status", p.Status,
			"products", p.Products,
			"pages", p.Pages,
			"complete", p.Complete,
			"snapshot", p.SnapshotPath,
		)
	}
	logger.Info("export finished", "rows", report.Rows, "table", report.TablePath, "complete", report.Complete)

	if !report.Complete && cfg.Output.FailOnPartial {
		return &exitError{code: 1, err: fmt.Errorf("export %q is incomplete", cfg.Name)}
	}
	return nil
}

func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(formatStr) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", formatStr)
	}
}
