// Package pokeapi fetches Pokémon list pages and records from PokeAPI and
// memoizes them for the life of the process.
package pokeapi

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Summary is one entry of a list page.
type Summary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID returns the identifier embedded in the summary URL
// (".../pokemon/25/" yields "25"), or "" if the URL has no path segments.
func (s Summary) ID() string {
	parts := strings.Split(strings.TrimRight(s.URL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// ListPage is one page of entity summaries plus links to its neighbours.
// Previous and Next are empty when the API returns null.
type ListPage struct {
	Items    []Summary
	Previous string
	Next     string
	Count    int
}

// listResponse is the JSON structure returned by GET /pokemon.
type listResponse struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Summary `json:"results"`
}

func (r listResponse) page() *ListPage {
	p := &ListPage{
		Items: r.Results,
		Count: r.Count,
	}
	if r.Previous != nil {
		p.Previous = *r.Previous
	}
	if r.Next != nil {
		p.Next = *r.Next
	}
	return p
}

// NamedResource is PokeAPI's {name, url} reference shape.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TypeSlot is one entry of Entity.Types.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Sprites holds the sprite references shown in the detail view.
type Sprites struct {
	FrontDefault string `json:"front_default"`
	BackDefault  string `json:"back_default"`
}

// Entity is the full detail record for one Pokémon.
type Entity struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Height  int        `json:"height"`
	Weight  int        `json:"weight"`
	Types   []TypeSlot `json:"types"`
	Sprites Sprites    `json:"sprites"`

	// Raw is the verbatim response body, kept for display attributes
	// this struct does not model.
	Raw json.RawMessage `json:"-"`
}

// PrimaryType returns the name of the slot-1 type, or "".
func (e *Entity) PrimaryType() string {
	return e.typeAt(0)
}

// SecondaryType returns the name of the slot-2 type, or "".
func (e *Entity) SecondaryType() string {
	return e.typeAt(1)
}

func (e *Entity) typeAt(i int) string {
	if e == nil || i >= len(e.Types) {
		return ""
	}
	return e.Types[i].Type.Name
}

// PaddedID formats the id the way the detail screen shows it ("#025").
func (e *Entity) PaddedID() string {
	s := strconv.Itoa(e.ID)
	for len(s) < 3 {
		s = "0" + s
	}
	return "#" + s
}

// decodeEntity parses a detail body and orders its types by slot.
func decodeEntity(body []byte) (*Entity, error) {
	var e Entity
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, err
	}
	sort.SliceStable(e.Types, func(i, j int) bool {
		return e.Types[i].Slot < e.Types[j].Slot
	})
	e.Raw = append(json.RawMessage(nil), body...)
	return &e, nil
}
