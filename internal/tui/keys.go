package tui

import "github.com/charmbracelet/bubbles/key"

// browseKeys holds key bindings for the contact list.
type browseKeys struct {
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

// ShortHelp returns the browse bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Clear, k.Quit}
}

// FullHelp returns the browse bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Search, k.Clear, k.Quit},
	}
}

// searchKeys holds key bindings while the search prompt is open.
type searchKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns the search bindings for the help bar.
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

// FullHelp returns the search bindings grouped for expanded help.
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel}}
}

// BrowseKeyMap returns the key bindings for the contact list.
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
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SearchKeyMap returns the key bindings for the search prompt.
func SearchKeyMap() searchKeys {
	return searchKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
