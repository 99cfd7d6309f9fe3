package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"Unhoster/internal/domain"
)

// FileName is the base name of the workshop index written by the game.
const FileName = "WorkshopFileInfos.json"

// Entry names one save document listed in a manifest.
type Entry struct {
	Name      string `json:"Name"`
	Directory string `json:"Directory"`
}

// IsManifestPath reports whether path points at a workshop index file.
func IsManifestPath(path string) bool {
	return filepath.Base(path) == FileName
}

// Load reads the manifest at path and keeps the entries that point at JSON saves.
func Load(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest %s: %v", domain.ErrInput, path, err)
	}

	var all []Entry
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%w: decode manifest %s: %v", domain.ErrInput, path, err)
	}

	entries := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.Name == "" || !strings.HasSuffix(e.Directory, "json") {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MatchKind enumerates selection outcomes.
type MatchKind int

const (
	// NotFound means no entry name starts with the query.
	NotFound MatchKind = iota
	// Matched means the query names exactly one entry.
	Matched
	// Ambiguous means the query is a prefix of several names.
	Ambiguous
)

// String returns a human readable outcome.
func (k MatchKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not found"
	}
}

// Match is the result of Select.
type Match struct {
	Kind       MatchKind
	Entry      Entry
	Candidates []string
}

// Select picks one entry by name. Comparison is case-folded; an exact name wins,
// otherwise the query must be a prefix of exactly one name.
func Select(query string, entries []Entry) Match {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	var prefixed []Entry
	for _, e := range entries {
		name := fold.String(e.Name)
		if name == q {
			return Match{Kind: Matched, Entry: e, Candidates: []string{e.Name}}
		}
		if strings.HasPrefix(name, q) {
			prefixed = append(prefixed, e)
		}
	}

	switch len(prefixed) {
	case 0:
		return Match{Kind: NotFound}
	case 1:
		return Match{Kind: Matched, Entry: prefixed[0], Candidates: []string{prefixed[0].Name}}
	}

	names := make([]string, 0, len(prefixed))
	for _, e := range prefixed {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return Match{Kind: Ambiguous, Candidates: names}
}

// Error converts a non-matching result into a selection error.
func (m Match) Error(query string) error {
	switch m.Kind {
	case Matched:
		return nil
	case Ambiguous:
		return fmt.Errorf("%w: %q matches %d entries: %s", domain.ErrSelection, query, len(m.Candidates), strings.Join(m.Candidates, ", "))
	default:
		return fmt.Errorf("%w: no entry matches %q", domain.ErrSelection, query)
	}
}

// IsQuit reports whether the operator asked to leave the selection prompt.
func IsQuit(query string) bool {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "q", "quit":
		return true
	}
	return false
}
