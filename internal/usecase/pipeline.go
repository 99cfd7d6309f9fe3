package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"Unhoster/internal/domain"
	"Unhoster/internal/ports"
)

// PipelineDeps wires all driven adapters into the retrieval pipeline.
type PipelineDeps struct {
	Fetcher  ports.BatchFetcher
	Store    ports.AssetStore
	Ledger   ports.AssetLedger
	Recorder ports.Recorder
	Logger   *slog.Logger
	Stdout   io.Writer
	RunID    string
	Now      func() time.Time
}

// Pipeline fetches a reference set and persists every successful result.
type Pipeline struct {
	fetcher  ports.BatchFetcher
	store    ports.AssetStore
	ledger   ports.AssetLedger
	recorder ports.Recorder
	logger   *slog.Logger
	stdout   io.Writer
	runID    string
	now      func() time.Time
}

// Summary counts what happened during one run.
type Summary struct {
	Total   int
	Written int
	Skipped int
	Failed  int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		fetcher:  deps.Fetcher,
		store:    deps.Store,
		ledger:   deps.Ledger,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		stdout:   deps.Stdout,
		runID:    deps.RunID,
		now:      deps.Now,
	}
}

// Run fetches refs and persists results as they complete. Individual fetch or
// write failures are reported and counted, never returned; Run only fails when
// it is misconfigured or ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, refs []domain.AssetReference, overwrite bool) (Summary, error) {
	if p.fetcher == nil || p.store == nil {
		return Summary{}, errors.New("pipeline requires a fetcher and a store")
	}

	summary := Summary{Total: len(refs)}
	p.printListing(refs)
	fmt.Fprintf(p.stdout, "\nFetching %d files\n", len(refs))

	n := 0
	for res := range p.fetcher.Stream(ctx, refs) {
		n++
		fmt.Fprintf(p.stdout, "(%d/%d) %s\n", n, len(refs), res.Reference.SourceURL)

		outcome, err := p.store.Persist(ctx, res, overwrite)
		switch outcome {
		case domain.OutcomeWritten:
			summary.Written++
		case domain.OutcomeSkipped:
			summary.Skipped++
			fmt.Fprintln(p.stdout, "\tAlready exists, skipping.")
		default:
			summary.Failed++
			fmt.Fprintf(p.stdout, "\tError: %v\n", err)
			p.warn("asset not retrieved", "url", res.Reference.SourceURL, "category", res.Reference.Category, "error", err)
		}

		p.observe(ctx, res, outcome, err)
	}

	fmt.Fprintf(p.stdout, "Done! %d written, %d skipped, %d failed.\n", summary.Written, summary.Skipped, summary.Failed)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run interrupted: %w", err)
	}
	return summary, nil
}

func (p *Pipeline) printListing(refs []domain.AssetReference) {
	fmt.Fprintln(p.stdout, "URLs to fetch:")
	for _, ref := range refs {
		fmt.Fprintf(p.stdout, "  [%s] %s -> %s\n", ref.Category, ref.SourceURL, p.store.Path(ref))
	}
}

func (p *Pipeline) observe(ctx context.Context, res domain.FetchResult, outcome domain.PersistOutcome, err error) {
	if p.recorder != nil {
		p.recorder.Observe(res, outcome)
	}
	if p.ledger == nil {
		return
	}

	entry := domain.LedgerEntry{
		RunID:     p.runID,
		Reference: res.Reference,
		Outcome:   outcome,
		Bytes:     len(res.Data),
		At:        p.now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	// Recorded without ctx cancellation so an interrupted run still logs what it did.
	if lerr := p.ledger.Record(context.WithoutCancel(ctx), entry); lerr != nil {
		p.warn("ledger record failed", "url", res.Reference.SourceURL, "error", lerr)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
