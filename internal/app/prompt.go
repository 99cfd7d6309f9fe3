package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"Unhoster/internal/domain"
	"Unhoster/internal/manifest"
)

// Prompter asks the operator to pick one manifest entry.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Choose prompts until an answer matches exactly one entry. Ambiguous and
// unknown answers are reported and asked again. Quitting or closing the input
// returns domain.ErrSelectionAborted.
func (p *Prompter) Choose(entries []manifest.Entry) (manifest.Entry, error) {
	fmt.Fprintln(p.out, "\nType the name, or start of the name, of the save you wish to retrieve.")
	for {
		fmt.Fprint(p.out, "> ")
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return manifest.Entry{}, fmt.Errorf("read selection: %w", err)
			}
			fmt.Fprintln(p.out)
			return manifest.Entry{}, domain.ErrSelectionAborted
		}

		query := p.scanner.Text()
		if manifest.IsQuit(query) {
			return manifest.Entry{}, domain.ErrSelectionAborted
		}

		match := manifest.Select(query, entries)
		switch match.Kind {
		case manifest.Matched:
			fmt.Fprintln(p.out, match.Entry.Name)
			return match.Entry, nil
		case manifest.Ambiguous:
			fmt.Fprintf(p.out, "Multiple matches, be more specific: %s\n", strings.Join(match.Candidates, ", "))
		default:
			fmt.Fprintln(p.out, "No matches found.")
		}
	}
}
