package ports

import (
	"context"

	"Unhoster/internal/domain"
)

// BatchFetcher retrieves many references concurrently. The returned channel
// yields exactly one result per reference, in completion order, and is closed
// once every fetch has finished.
type BatchFetcher interface {
	Stream(ctx context.Context, refs []domain.AssetReference) <-chan domain.FetchResult
}

// AssetStore persists fetched bytes under the output tree.
type AssetStore interface {
	Persist(ctx context.Context, result domain.FetchResult, overwrite bool) (domain.PersistOutcome, error)
	Path(ref domain.AssetReference) string
}

// AssetLedger records what happened to every reference for later auditing.
type AssetLedger interface {
	Record(ctx context.Context, entry domain.LedgerEntry) error
}

// Recorder observes per-asset outcomes, e.g. for metrics.
type Recorder interface {
	Observe(result domain.FetchResult, outcome domain.PersistOutcome)
}
