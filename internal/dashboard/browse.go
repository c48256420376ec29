package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokedex/internal/display"
	"github.com/smileynet/pokedex/internal/viewstate"
)

// CursorMarker is the prefix shown on the selected list row.
const CursorMarker = "▸ "

// fetchPage returns a tea.Cmd that calls FetchList asynchronously and wraps
// the result in a PageLoadedMsg. An empty url requests the first page.
func fetchPage(ctx context.Context, f viewstate.Fetcher, url string) tea.Cmd {
	return func() tea.Msg {
		page, err := f.FetchList(ctx, url)
		return PageLoadedMsg{URL: url, Page: page, Err: err}
	}
}

// fetchEntity returns a tea.Cmd that calls FetchEntity asynchronously and
// wraps the result in an EntityLoadedMsg.
func fetchEntity(ctx context.Context, f viewstate.Fetcher, key string) tea.Cmd {
	return func() tea.Msg {
		e, err := f.FetchEntity(ctx, key)
		return EntityLoadedMsg{Key: key, Entity: e, Err: err}
	}
}

// browseState tracks the cursor over the current page's slots.
// Page data itself lives in the coordinator.
type browseState struct {
	cursor int
}

// move shifts the cursor by delta, wrapping within the populated rows.
func (bs browseState) move(delta, populated int) browseState {
	if populated == 0 {
		bs.cursor = 0
		return bs
	}
	bs.cursor = (bs.cursor + delta) % populated
	if bs.cursor < 0 {
		bs.cursor += populated
	}
	return bs
}

// selected returns the slot under the cursor, or false when the cursor sits
// on a placeholder or the slice is empty.
func (bs browseState) selected(slots []viewstate.Slot) (viewstate.Slot, bool) {
	if bs.cursor < 0 || bs.cursor >= len(slots) || slots[bs.cursor].Empty {
		return viewstate.Slot{}, false
	}
	return slots[bs.cursor], true
}

// View renders the list pane content.
// spinnerView is the current spinner frame.
func (bs browseState) View(c *viewstate.Coordinator, spinnerView string) string {
	if c.PageStatus() == viewstate.StatusLoading {
		return fmt.Sprintf("%s Loading Pokémon...", spinnerView)
	}
	if msg := c.PageError(); msg != "" && c.Page() == nil {
		return errorText.Render("Error: "+msg) + "\n\nPress r to retry"
	}

	var b strings.Builder
	if page := c.Page(); page != nil {
		b.WriteString(headerText.Render(fmt.Sprintf("Pokédex (%d)", page.Count)))
		b.WriteString("\n\n")
	}
	for i, slot := range c.Slots() {
		if i > 0 {
			b.WriteByte('\n')
		}
		if slot.Empty {
			continue
		}
		if i == bs.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(display.SlotLabel(slot))
	}

	b.WriteString("\n\n")
	b.WriteString(pageIndicators(c))
	if msg := c.PageError(); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorText.Render(msg))
	}
	return b.String()
}

// pageIndicators renders the prev/next affordances, dimming whichever
// direction has no page.
func pageIndicators(c *viewstate.Coordinator) string {
	prev := "◂ prev"
	if !c.HasPrevious() {
		prev = mutedText.Render(prev)
	}
	next := "next ▸"
	if !c.HasNext() {
		next = mutedText.Render(next)
	}
	return prev + "  " + next
}
