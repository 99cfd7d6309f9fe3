package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"Unhoster/internal/domain"
	"Unhoster/internal/infrastructure/savefile"
	"Unhoster/internal/naming"
)

const defaultScheme = "http://"

// childFields hold nested object records (bags, decks, alternate states).
var childFields = []string{"ContainedObjects", "States"}

// Options tunes extraction.
type Options struct {
	// Nested also walks ContainedObjects and States of every object.
	Nested bool
	Logger *slog.Logger
}

// Extractor pulls asset references out of save documents according to a schema.
type Extractor struct {
	schema Schema
	nested bool
	logger *slog.Logger
}

// New builds an extractor for schema.
func New(schema Schema, opts Options) *Extractor {
	return &Extractor{schema: schema, nested: opts.Nested, logger: opts.Logger}
}

// Extract returns the distinct references of doc. The first occurrence of a
// (URL, category) pair wins.
func (e *Extractor) Extract(doc savefile.Document) (*domain.ReferenceSet, error) {
	objects, err := doc.Objects()
	if err != nil {
		if doc.Name == "" {
			return nil, fmt.Errorf("extract: %w", err)
		}
		return nil, fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	set := domain.NewReferenceSet()
	visited := e.walk(objects, set)
	e.debug("extracted references", "document", doc.Name, "objects", visited, "references", set.Len())
	return set, nil
}

func (e *Extractor) walk(objects []savefile.Object, set *domain.ReferenceSet) int {
	visited := 0
	for _, obj := range objects {
		visited++
		e.collect(obj, set)
		if !e.nested {
			continue
		}
		for _, field := range childFields {
			visited += e.walk(obj.Children(field), set)
		}
	}
	return visited
}

func (e *Extractor) collect(obj savefile.Object, set *domain.ReferenceSet) {
	for _, rule := range e.schema.rules {
		section, ok := obj.Section(rule.Section)
		if !ok {
			continue
		}
		value, ok := section.String(rule.Field)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		source := NormalizeURL(value)
		set.Add(domain.AssetReference{
			SourceURL:  source,
			Category:   rule.Category,
			TargetName: naming.Sanitize(source),
		})
	}
}

// NormalizeURL prefixes http:// to values that do not start with a scheme.
// This is a best-effort repair for hand-edited saves, not URL validation.
func NormalizeURL(value string) string {
	if hasScheme(value) {
		return value
	}
	return defaultScheme + value
}

func hasScheme(value string) bool {
	idx := strings.Index(value, "://")
	if idx <= 0 {
		return false
	}
	for i, r := range value[:idx] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func (e *Extractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
