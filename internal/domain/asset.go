package domain

import "time"

// AssetCategory classifies a downloadable resource and selects its destination subdirectory.
type AssetCategory string

const (
	// CategoryImage assets (diffuse and normal maps) go to Images.
	CategoryImage AssetCategory = "image"
	// CategoryModel assets (meshes and colliders) go to Models.
	CategoryModel AssetCategory = "model"
)

// Subdir returns the output subdirectory for the category.
func (c AssetCategory) Subdir() string {
	switch c {
	case CategoryImage:
		return "Images"
	case CategoryModel:
		return "Models"
	default:
		return ""
	}
}

// Valid reports whether c is a known category.
func (c AssetCategory) Valid() bool {
	return c == CategoryImage || c == CategoryModel
}

// String returns the category label used in listings, logs and metrics.
func (c AssetCategory) String() string {
	return string(c)
}

// Categories lists every known category in a stable order.
func Categories() []AssetCategory {
	return []AssetCategory{CategoryImage, CategoryModel}
}

// AssetKey identifies a reference for deduplication.
type AssetKey struct {
	URL      string
	Category AssetCategory
}

// AssetReference is a single externally hosted asset found in a save document.
type AssetReference struct {
	SourceURL  string
	Category   AssetCategory
	TargetName string
}

// Key returns the deduplication key of the reference.
func (r AssetReference) Key() AssetKey {
	return AssetKey{URL: r.SourceURL, Category: r.Category}
}

// FetchResult carries the outcome of retrieving one reference. Exactly one of
// Data or Err is meaningful: Err == nil means success.
type FetchResult struct {
	Reference AssetReference
	Data      []byte
	Err       error
	Duration  time.Duration
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// PersistOutcome enumerates what the writer did with a fetch result.
type PersistOutcome string

const (
	// OutcomeWritten means the file was created or replaced.
	OutcomeWritten PersistOutcome = "written"
	// OutcomeSkipped means the file existed and overwriting was off.
	OutcomeSkipped PersistOutcome = "skipped"
	// OutcomeFailed means the fetch or the write failed.
	OutcomeFailed PersistOutcome = "failed"
)

// LedgerEntry is the audit record stored for each processed reference.
type LedgerEntry struct {
	RunID     string
	Reference AssetReference
	Outcome   PersistOutcome
	Bytes     int
	Error     string
	At        time.Time
}
