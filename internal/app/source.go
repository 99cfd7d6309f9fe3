package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"Unhoster/internal/domain"
	"Unhoster/internal/extractor"
	"Unhoster/internal/infrastructure/savefile"
	"Unhoster/internal/manifest"
)

// Source turns command line inputs into one merged reference set.
type Source struct {
	extractor *extractor.Extractor
	prompter  *Prompter
	out       io.Writer
	logger    *slog.Logger
}

// NewSource wires an extractor with the prompt used in manifest mode.
func NewSource(ext *extractor.Extractor, prompter *Prompter, out io.Writer, log *slog.Logger) *Source {
	return &Source{
		extractor: ext,
		prompter:  prompter,
		out:       out,
		logger:    log,
	}
}

// Documents resolves inputs to save document paths. A single manifest input is
// replaced by the entry chosen with pick, or interactively when pick is empty.
func (s *Source) Documents(inputs []string, pick string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no input documents", domain.ErrInput)
	}
	if len(inputs) != 1 || !manifest.IsManifestPath(inputs[0]) {
		return inputs, nil
	}

	entries, err := manifest.Load(inputs[0])
	if err != nil {
		return nil, err
	}
	s.debug("manifest loaded", "path", inputs[0], "entries", len(entries))

	fmt.Fprintf(s.out, "Loaded %s; listing save names\n", manifest.FileName)
	for _, e := range entries {
		fmt.Fprintf(s.out, "  %s\t%s\n", e.Name, e.Directory)
	}

	var chosen manifest.Entry
	if pick != "" {
		match := manifest.Select(pick, entries)
		if err := match.Error(pick); err != nil {
			return nil, err
		}
		chosen = match.Entry
		fmt.Fprintln(s.out, chosen.Name)
	} else {
		if s.prompter == nil {
			return nil, fmt.Errorf("%w: no prompt available", domain.ErrSelection)
		}
		chosen, err = s.prompter.Choose(entries)
		if err != nil {
			return nil, err
		}
	}

	return []string{resolveEntry(inputs[0], chosen)}, nil
}

// References loads and extracts every document, merging the results in input order.
func (s *Source) References(paths []string) (*domain.ReferenceSet, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("extractor is not configured")
	}

	merged := domain.NewReferenceSet()
	for _, path := range paths {
		fmt.Fprintln(s.out, path)
		doc, err := savefile.Load(path)
		if err != nil {
			return nil, err
		}
		set, err := s.extractor.Extract(doc)
		if err != nil {
			return nil, err
		}
		s.debug("document extracted", "path", path, "references", set.Len())
		merged.Merge(set)
	}
	return merged, nil
}

// resolveEntry makes a relative manifest directory relative to the manifest itself.
func resolveEntry(manifestPath string, e manifest.Entry) string {
	if filepath.IsAbs(e.Directory) {
		return e.Directory
	}
	return filepath.Join(filepath.Dir(manifestPath), e.Directory)
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
