package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/viewstate"
)

// Title capitalizes a PokeAPI slug for display.
func Title(s string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Title(language.English).String(s)
}

// SlotLabel renders one list row as "25. Pikachu", or "" for a placeholder.
func SlotLabel(s viewstate.Slot) string {
	if s.Empty {
		return ""
	}
	return s.ID() + ". " + Title(s.Name)
}

// typeColors maps each known type to its badge color.
var typeColors = map[string]lipgloss.AdaptiveColor{
	"normal":   {Light: "#A8A77A", Dark: "#A8A77A"},
	"fighting": {Light: "#C22E28", Dark: "#C22E28"},
	"flying":   {Light: "#A98FF3", Dark: "#A98FF3"},
	"poison":   {Light: "#A33EA1", Dark: "#A33EA1"},
	"ground":   {Light: "#E2BF65", Dark: "#E2BF65"},
	"rock":     {Light: "#B6A136", Dark: "#B6A136"},
	"bug":      {Light: "#A6B91A", Dark: "#A6B91A"},
	"ghost":    {Light: "#735797", Dark: "#735797"},
	"steel":    {Light: "#B7B7CE", Dark: "#B7B7CE"},
	"fire":     {Light: "#EE8130", Dark: "#EE8130"},
	"water":    {Light: "#6390F0", Dark: "#6390F0"},
	"grass":    {Light: "#7AC74C", Dark: "#7AC74C"},
	"electric": {Light: "#F7D02C", Dark: "#F7D02C"},
	"psychic":  {Light: "#F95587", Dark: "#F95587"},
	"ice":      {Light: "#96D9D6", Dark: "#96D9D6"},
	"dragon":   {Light: "#6F35FC", Dark: "#6F35FC"},
	"dark":     {Light: "#705746", Dark: "#705746"},
	"fairy":    {Light: "#D685AD", Dark: "#D685AD"},
}

var neutralColor = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

// TypeColor returns the palette color for a type name. Unknown or empty
// names get a neutral gray.
func TypeColor(typeName string) lipgloss.AdaptiveColor {
	if c, ok := typeColors[typeName]; ok {
		return c
	}
	return neutralColor
}

// TypeBadge renders a type name as a colored label.
func TypeBadge(typeName string) string {
	if typeName == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(TypeColor(typeName)).
		Render(Title(typeName))
}

// cardLines returns the text body shared by the plain and styled cards.
// badge renders a type name; plain output passes Title.
func cardLines(e *pokeapi.Entity, badge func(string) string) []string {
	types := badge(e.PrimaryType())
	if second := e.SecondaryType(); second != "" {
		types += " / " + badge(second)
	}
	lines := []string{
		fmt.Sprintf("%s  %s", Title(e.Name), e.PaddedID()),
		"type:   " + types,
		fmt.Sprintf("height: %d", e.Height),
		fmt.Sprintf("weight: %d", e.Weight),
	}
	if e.Sprites.FrontDefault != "" {
		lines = append(lines, "front:  "+e.Sprites.FrontDefault)
	}
	if e.Sprites.BackDefault != "" {
		lines = append(lines, "back:   "+e.Sprites.BackDefault)
	}
	return lines
}

// PlainCard renders a record as undecorated text.
func PlainCard(e *pokeapi.Entity) string {
	return strings.Join(cardLines(e, Title), "\n")
}

// Card renders a record inside a rounded border tinted by its primary
// type. width <= 0 lets the content size the card.
func Card(e *pokeapi.Entity, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(TypeColor(e.PrimaryType())).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(cardLines(e, TypeBadge), "\n"))
}
