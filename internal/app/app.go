package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"Unhoster/internal/config"
	"Unhoster/internal/extractor"
	"Unhoster/internal/infrastructure/fetcher"
	"Unhoster/internal/infrastructure/storage"
	"Unhoster/internal/logging"
	"Unhoster/internal/metrics"
	"Unhoster/internal/ports"
	"Unhoster/internal/usecase"
)

// DefaultOutputDir is created next to the first input when no output is configured.
const DefaultOutputDir = "Retrieved"

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *extractor.Registry
	stdin    io.Reader
	stdout   io.Writer
	runID    string
}

// New builds a runnable application. stdin feeds the manifest prompt and
// stdout receives the progress listing; nil falls back to the process streams.
func New(cfg config.Config, baseLogger *slog.Logger, stdin io.Reader, stdout io.Writer) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	runID := uuid.NewString()
	return &Application{
		cfg:      cfg,
		logger:   baseLogger.With("run_id", runID),
		registry: extractor.NewRegistry(),
		stdin:    stdin,
		stdout:   stdout,
		runID:    runID,
	}
}

// RunID identifies this execution in logs and the ledger.
func (a *Application) RunID() string {
	return a.runID
}

// Run resolves inputs, extracts their asset references and retrieves them.
// pick selects a manifest entry without prompting. Errors are setup failures;
// per-asset failures only show up in the summary.
func (a *Application) Run(ctx context.Context, inputs []string, pick string) (usecase.Summary, error) {
	schema, err := a.registry.Resolve(a.cfg.Extractor.Schema)
	if err != nil {
		return usecase.Summary{}, fmt.Errorf("config: %w", err)
	}

	ext := extractor.New(schema, extractor.Options{
		Nested: a.cfg.Extractor.Nested,
		Logger: a.logger.With("component", "extractor"),
	})
	source := NewSource(ext, NewPrompter(a.stdin, a.stdout), a.stdout, a.logger.With("component", "source"))

	paths, err := source.Documents(inputs, pick)
	if err != nil {
		return usecase.Summary{}, err
	}
	refs, err := source.References(paths)
	if err != nil {
		return usecase.Summary{}, err
	}

	outputDir, err := a.outputDir(inputs)
	if err != nil {
		return usecase.Summary{}, err
	}
	fmt.Fprintln(a.stdout, "Output directory:", outputDir)

	store, err := storage.NewFileStore(outputDir)
	if err != nil {
		return usecase.Summary{}, err
	}
	if err := store.EnsureLayout(); err != nil {
		return usecase.Summary{}, err
	}

	var ledger ports.AssetLedger
	if a.cfg.Ledger.DSN != "" {
		pg, err := storage.OpenPostgresLedger(ctx, a.cfg.Ledger.DSN)
		if err != nil {
			a.logger.Warn("ledger disabled", "error", err)
		} else {
			defer pg.Close()
			ledger = pg
		}
	}

	var recorder ports.Recorder
	var collector *metrics.Collector
	if a.cfg.Metrics.Textfile != "" {
		collector = metrics.NewCollector()
		recorder = collector
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher: fetcher.New(fetcher.Options{
			Concurrency: a.cfg.Fetch.Concurrency,
			Timeout:     a.cfg.Fetch.Timeout,
			UserAgent:   a.cfg.Fetch.UserAgent,
			Logger:      a.logger.With("component", "fetcher"),
		}),
		Store:    store,
		Ledger:   ledger,
		Recorder: recorder,
		Logger:   a.logger.With("component", "pipeline"),
		Stdout:   a.stdout,
		RunID:    a.runID,
	})

	a.logger.Info("retrieval started", "references", refs.Len(), "output", outputDir, "schema", schema.Name)
	summary, runErr := pipeline.Run(ctx, refs.Slice(), a.cfg.Output.Overwrite)
	a.logger.Info("retrieval finished",
		"written", summary.Written,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	if collector != nil {
		if err := collector.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("metrics textfile not written", "path", a.cfg.Metrics.Textfile, "error", err)
		}
	}
	return summary, runErr
}

func (a *Application) outputDir(inputs []string) (string, error) {
	if a.cfg.Output.Dir != "" {
		return a.cfg.Output.Dir, nil
	}
	abs, err := filepath.Abs(inputs[0])
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	return filepath.Join(filepath.Dir(abs), DefaultOutputDir), nil
}
