// Package display prints list pages and records for the non-interactive
// commands, styled when writing to a terminal and plain otherwise.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/viewstate"
)

// Display renders coordinator output.
type Display interface {
	ShowPage(slots []viewstate.Slot, prevURL, nextURL string) error
	ShowEntity(e *pokeapi.Entity) error
}

// Options configures display creation.
type Options struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
}

// New returns a styled display when the writer is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func New(opts Options) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer}
	}
	return &StyledDisplay{w: opts.Writer, r: lipgloss.NewRenderer(opts.Writer)}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay writes undecorated text, one slot per line.
type PlainDisplay struct {
	w io.Writer
}

// ShowPage prints every slot (placeholders as blank lines) followed by the
// pagination links.
func (d *PlainDisplay) ShowPage(slots []viewstate.Slot, prevURL, nextURL string) error {
	return writePage(d.w, slots, prevURL, nextURL)
}

// ShowEntity prints the record card.
func (d *PlainDisplay) ShowEntity(e *pokeapi.Entity) error {
	_, err := fmt.Fprintln(d.w, PlainCard(e))
	return err
}

// StyledDisplay writes lipgloss-styled output.
type StyledDisplay struct {
	w io.Writer
	r *lipgloss.Renderer
}

// ShowPage prints the page with the same layout as PlainDisplay, slot labels
// bold and missing pagination links dimmed.
func (d *StyledDisplay) ShowPage(slots []viewstate.Slot, prevURL, nextURL string) error {
	r := d.r
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	bold := r.NewStyle().Bold(true)
	faint := r.NewStyle().Faint(true)

	for _, s := range slots {
		line := SlotLabel(s)
		if line != "" {
			line = bold.Render(line)
		}
		if _, err := fmt.Fprintln(d.w, line); err != nil {
			return err
		}
	}
	link := func(name, url string) string {
		if url == "" {
			return faint.Render(name + ": -")
		}
		return faint.Render(name+":") + " " + url
	}
	_, err := fmt.Fprintf(d.w, "%s\n%s\n", link("prev", prevURL), link("next", nextURL))
	return err
}

// ShowEntity prints the bordered, type-tinted card.
func (d *StyledDisplay) ShowEntity(e *pokeapi.Entity) error {
	_, err := fmt.Fprintln(d.w, Card(e, 0))
	return err
}

func writePage(w io.Writer, slots []viewstate.Slot, prevURL, nextURL string) error {
	for _, s := range slots {
		if _, err := fmt.Fprintln(w, SlotLabel(s)); err != nil {
			return err
		}
	}
	if prevURL == "" {
		prevURL = "-"
	}
	if nextURL == "" {
		nextURL = "-"
	}
	_, err := fmt.Fprintf(w, "prev: %s\nnext: %s\n", prevURL, nextURL)
	return err
}
