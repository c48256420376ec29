package dashboard

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/pokedex/internal/pokeapi"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// execBatch executes a tea.Cmd, handling both single commands and batch
// commands. It returns all resulting messages. Spinner ticks are skipped
// to avoid infinite recursion.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			if c != nil {
				result := c()
				// Skip spinner ticks to avoid recursion.
				if _, isTick := result.(spinner.TickMsg); !isTick {
					msgs = append(msgs, result)
				}
			}
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// stubFetcher serves canned pages keyed by URL and records keyed by
// normalized id or name.
type stubFetcher struct {
	pages     map[string]*pokeapi.ListPage
	entities  map[string]*pokeapi.Entity
	listErr   error
	entityErr error

	listCalls   []string
	entityCalls []string
}

func (s *stubFetcher) FetchList(_ context.Context, url string) (*pokeapi.ListPage, error) {
	s.listCalls = append(s.listCalls, url)
	if s.listErr != nil {
		return nil, s.listErr
	}
	if p, ok := s.pages[url]; ok {
		return p, nil
	}
	return nil, &pokeapi.FetchError{Kind: pokeapi.KindHTTPStatus, URL: url, Status: 404}
}

func (s *stubFetcher) FetchEntity(_ context.Context, key string) (*pokeapi.Entity, error) {
	s.entityCalls = append(s.entityCalls, key)
	if s.entityErr != nil {
		return nil, s.entityErr
	}
	if e, ok := s.entities[pokeapi.NormalizeKey(key)]; ok {
		return e, nil
	}
	return nil, &pokeapi.FetchError{Kind: pokeapi.KindHTTPStatus, URL: key, Status: 404}
}

const (
	stubPage1 = "https://pokeapi.test/api/v2/pokemon?offset=0&limit=3"
	stubPage2 = "https://pokeapi.test/api/v2/pokemon?offset=3&limit=3"
)

// newStubFetcher returns a two-page fetcher with three records per page
// except the last, which has one.
func newStubFetcher() *stubFetcher {
	summary := func(id int, name string) pokeapi.Summary {
		return pokeapi.Summary{Name: name, URL: "https://pokeapi.test/api/v2/pokemon/" + strconv.Itoa(id) + "/"}
	}
	entity := func(id int, name, typ string) *pokeapi.Entity {
		return &pokeapi.Entity{
			ID: id, Name: name, Height: 7, Weight: 69,
			Types: []pokeapi.TypeSlot{{Slot: 1, Type: pokeapi.NamedResource{Name: typ}}},
		}
	}
	first := &pokeapi.ListPage{
		Count: 4,
		Next:  stubPage2,
		Items: []pokeapi.Summary{summary(1, "bulbasaur"), summary(2, "ivysaur"), summary(3, "venusaur")},
	}
	second := &pokeapi.ListPage{
		Count:    4,
		Previous: stubPage1,
		Items:    []pokeapi.Summary{summary(4, "charmander")},
	}
	return &stubFetcher{
		pages: map[string]*pokeapi.ListPage{"": first, stubPage1: first, stubPage2: second},
		entities: map[string]*pokeapi.Entity{
			"1":          entity(1, "bulbasaur", "grass"),
			"2":          entity(2, "ivysaur", "grass"),
			"4":          entity(4, "charmander", "fire"),
			"charmander": entity(4, "charmander", "fire"),
		},
	}
}

// newLoadedModel returns a sized model with the first page applied.
func newLoadedModel(t *testing.T, f *stubFetcher) Model {
	t.Helper()
	m := NewModel(f, WithPageSize(3))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m = updated.(Model)
	return applyAll(t, m, m.Init())
}

// applyAll runs cmd and feeds every resulting message back into m.
func applyAll(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range execBatch(t, cmd) {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

// press sends a key to the model and returns the updated model and command.
func press(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
