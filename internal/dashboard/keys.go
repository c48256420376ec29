package dashboard

import "github.com/charmbracelet/bubbles/key"

// browseKeys holds key bindings for browse mode.
type browseKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Prev   key.Binding
	Next   key.Binding
	Search key.Binding
	Tab    key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns the browse mode bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Prev, k.Next, k.Search, k.Tab, k.Quit}
}

// FullHelp returns the browse mode bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Prev, k.Next, k.Reload},
		{k.Search, k.Tab, k.Quit},
	}
}

// searchKeys holds key bindings for search mode.
type searchKeys struct {
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// ShortHelp returns the search mode bindings for the help bar.
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Quit}
}

// FullHelp returns the search mode bindings grouped for expanded help.
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel, k.Quit}}
}

// BrowseKeyMap returns the key bindings for browse mode.
func BrowseKeyMap() browseKeys {
	return browseKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "show"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("←/p", "prev page"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("→/n", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SearchKeyMap returns the key bindings for search mode.
func SearchKeyMap() searchKeys {
	return searchKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "find"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		// q is typed into the query, so only ctrl+c quits here.
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
