package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"Unhoster/internal/domain"
)

func entries(names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, Entry{Name: n, Directory: "/mods/" + n + ".json"})
	}
	return out
}

func TestSelectAmbiguousPrefix(t *testing.T) {
	t.Parallel()

	m := Select("ab", entries("abd", "abc", "xyz"))
	if m.Kind != Ambiguous {
		t.Fatalf("expected ambiguous, got %s", m.Kind)
	}
	if !reflect.DeepEqual(m.Candidates, []string{"abc", "abd"}) {
		t.Fatalf("unexpected candidates: %v", m.Candidates)
	}
	if err := m.Error("ab"); !errors.Is(err, domain.ErrSelection) {
		t.Fatalf("expected ErrSelection, got %v", err)
	}
}

func TestSelectUniquePrefix(t *testing.T) {
	t.Parallel()

	m := Select("ABC", entries("abcdef", "xyz"))
	if m.Kind != Matched || m.Entry.Name != "abcdef" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if err := m.Error("ABC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSelectExactWins(t *testing.T) {
	t.Parallel()

	m := Select("Chess", entries("Chess Deluxe", "chess", "Chess Pro"))
	if m.Kind != Matched || m.Entry.Name != "chess" {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestSelectNotFound(t *testing.T) {
	t.Parallel()

	m := Select("zz", entries("abc"))
	if m.Kind != NotFound {
		t.Fatalf("expected not found, got %s", m.Kind)
	}
	if err := m.Error("zz"); !errors.Is(err, domain.ErrSelection) {
		t.Fatalf("expected ErrSelection, got %v", err)
	}
	if got := Select("a", nil); got.Kind != NotFound {
		t.Fatalf("expected not found on empty manifest, got %s", got.Kind)
	}
}

func TestIsQuit(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"q", "quit", " QUIT "} {
		if !IsQuit(q) {
			t.Fatalf("expected %q to quit", q)
		}
	}
	if IsQuit("quiz") {
		t.Fatalf("quiz must not quit")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	body := `[
		{"Name": "Chess", "Directory": "/mods/Workshop/123.json", "UpdateTime": 1},
		{"Name": "Thumb", "Directory": "/mods/Workshop/123.png"},
		{"Name": "", "Directory": "/mods/Workshop/456.json"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if !IsManifestPath(path) {
		t.Fatalf("expected %s to be a manifest path", path)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []Entry{{Name: "Chess", Directory: "/mods/Workshop/123.json"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries: %+v", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, domain.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
