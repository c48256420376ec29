// Package dashboard implements the two-pane Pokédex TUI: a paginated list
// on the left and the selected record's card on the right.
package dashboard

import "github.com/smileynet/pokedex/internal/pokeapi"

// Mode represents the current dashboard input mode.
type Mode int

const (
	ModeBrowse Mode = iota // Navigating the list and pages.
	ModeSearch             // Typing an id or name into the search box.
)

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Left pane (list) has focus.
	PaneRight              // Right pane (detail viewport) has focus.
)

// --- tea.Msg types ---

// PageLoadedMsg carries the result of a FetchList call.
type PageLoadedMsg struct {
	URL  string
	Page *pokeapi.ListPage
	Err  error
}

// EntityLoadedMsg carries the result of a FetchEntity call.
type EntityLoadedMsg struct {
	Key    string
	Entity *pokeapi.Entity
	Err    error
}
