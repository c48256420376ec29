package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/pokedex/internal/display"
	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/viewstate"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// searchBarHeight is the number of detail lines used by the search input.
const searchBarHeight = 2

// Model is the root Bubble Tea model for the dashboard TUI.
// It manages a two-pane layout with mode-based routing and focus management.
type Model struct {
	mode     Mode
	focus    Focus
	width    int
	height   int
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model

	ctx     context.Context
	fetcher viewstate.Fetcher
	coord   *viewstate.Coordinator
	browse  browseState
	pageURL string // last page requested; "" is the first page.

	browseKeys browseKeys
	searchKeys searchKeys
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithPageSize sets the number of list slots shown per page.
func WithPageSize(n int) ModelOption {
	return func(m *Model) {
		m.coord = viewstate.New(m.fetcher, n)
	}
}

// WithContext sets the context passed to every fetch.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// NewModel creates a dashboard Model in browse mode with left-pane focus.
// The first page is marked loading; Init issues the fetch.
func NewModel(fetcher viewstate.Fetcher, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "name or id"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		mode:       ModeBrowse,
		focus:      PaneLeft,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		spinner:    s,
		search:     ti,
		ctx:        context.Background(),
		fetcher:    fetcher,
		coord:      viewstate.New(fetcher, pokeapi.DefaultPageSize),
		browseKeys: BrowseKeyMap(),
		searchKeys: SearchKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.coord.BeginPage()
	return m
}

// Init fetches the first page and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchPage(m.ctx, m.fetcher, m.pageURL), m.spinner.Tick)
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		vpWidth := rightWidth - borderChrome
		if vpWidth < 0 {
			vpWidth = 0
		}
		m.viewport.Width = vpWidth
		m.viewport.Height = m.detailHeight()
		m.search.Width = max(vpWidth-len(m.search.Prompt)-1, 0)
		m.refreshDetail()
		return m, nil

	case PageLoadedMsg:
		m.coord.ApplyPage(msg.Page, msg.Err)
		if msg.Err == nil {
			m.pageURL = msg.URL
			m.browse = browseState{}
		}
		m.refreshDetail()
		return m, nil

	case EntityLoadedMsg:
		m.coord.ApplyEntity(msg.Entity, msg.Err)
		m.refreshDetail()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.coord.EntityStatus() == viewstate.StatusLoading {
			m.refreshDetail()
		}
		return m, cmd

	case tea.KeyMsg:
		if m.mode == ModeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes browse mode keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.browseKeys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Tab):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil

	case key.Matches(msg, k.Search):
		m.mode = ModeSearch
		m.search.SetValue("")
		m.refreshDetail()
		return m, m.search.Focus()

	case key.Matches(msg, k.Reload):
		m.coord.BeginPage()
		m.refreshDetail()
		return m, fetchPage(m.ctx, m.fetcher, m.pageURL)

	case key.Matches(msg, k.Next):
		if !m.coord.HasNext() || m.pageLoading() {
			return m, nil
		}
		url := m.coord.NextURL()
		m.coord.BeginPage()
		m.refreshDetail()
		return m, fetchPage(m.ctx, m.fetcher, url)

	case key.Matches(msg, k.Prev):
		if !m.coord.HasPrevious() || m.pageLoading() {
			return m, nil
		}
		url := m.coord.PreviousURL()
		m.coord.BeginPage()
		m.refreshDetail()
		return m, fetchPage(m.ctx, m.fetcher, url)
	}

	if m.focus == PaneRight {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.pageLoading() {
		return m, nil
	}
	populated := m.populated()
	switch {
	case key.Matches(msg, k.Up):
		m.browse = m.browse.move(-1, populated)
	case key.Matches(msg, k.Down):
		m.browse = m.browse.move(1, populated)
	case key.Matches(msg, k.Select):
		slot, ok := m.browse.selected(m.coord.Slots())
		if !ok {
			return m, nil
		}
		return m.loadEntity(slot.ID())
	}
	return m, nil
}

// handleSearchKey routes keys to the search input until submit or cancel.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.searchKeys.Cancel):
		m.mode = ModeBrowse
		m.search.Blur()
		m.refreshDetail()
		return m, nil

	case key.Matches(msg, m.searchKeys.Submit):
		query := strings.TrimSpace(m.search.Value())
		m.mode = ModeBrowse
		m.search.Blur()
		if query == "" {
			m.refreshDetail()
			return m, nil
		}
		return m.loadEntity(query)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshDetail()
	return m, cmd
}

// loadEntity starts fetching a record and shows the loading state.
func (m Model) loadEntity(key string) (tea.Model, tea.Cmd) {
	m.coord.BeginEntity()
	m.refreshDetail()
	return m, fetchEntity(m.ctx, m.fetcher, key)
}

func (m Model) pageLoading() bool {
	return m.coord.PageStatus() == viewstate.StatusLoading
}

// populated returns how many slots on the current page hold a record.
func (m Model) populated() int {
	if page := m.coord.Page(); page != nil {
		return min(len(page.Items), m.coord.PageSize())
	}
	return 0
}

// SelectedSlot returns the list slot under the cursor, or false when none.
func (m Model) SelectedSlot() (viewstate.Slot, bool) {
	return m.browse.selected(m.coord.Slots())
}

// Coordinator exposes the view state for callers that inspect the model.
func (m Model) Coordinator() *viewstate.Coordinator {
	return m.coord
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// detailHeight is the viewport height, leaving room for the search bar.
func (m Model) detailHeight() int {
	h := m.contentHeight() - searchBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// refreshDetail re-renders the detail content into the viewport.
func (m *Model) refreshDetail() {
	m.viewport.SetContent(m.detailContent())
}

// detailContent renders the right pane body for the current entity state.
func (m Model) detailContent() string {
	c := m.coord
	var b strings.Builder
	switch c.EntityStatus() {
	case viewstate.StatusLoading:
		b.WriteString(fmt.Sprintf("%s Loading details...", m.spinner.View()))
	case viewstate.StatusError:
		b.WriteString(errorText.Render("Error: " + c.EntityError()))
		if c.Entity() != nil {
			b.WriteString("\n\n")
		}
	}
	if c.EntityStatus() != viewstate.StatusLoading {
		if e := c.Entity(); e != nil {
			b.WriteString(display.Card(e, m.viewport.Width))
		} else if c.EntityStatus() == viewstate.StatusIdle {
			b.WriteString(mutedText.Render("Select a Pokémon or press / to search"))
		}
	}
	return b.String()
}

// View renders the two-pane layout with help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.browse.View(m.coord, m.spinner.View()))
	rightPane := rightStyle.Render(m.viewRight())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	helpView := m.help.View(HelpBindings(m.mode))

	return lipgloss.JoinVertical(lipgloss.Left, panes, helpView)
}

// viewRight renders the search bar (or a hint) above the detail viewport.
func (m Model) viewRight() string {
	top := mutedText.Render("press / to search")
	if m.mode == ModeSearch {
		top = m.search.View()
	}
	return top + "\n\n" + m.viewport.View()
}
