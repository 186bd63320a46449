package preview

import "github.com/charmbracelet/bubbles/key"

// pageKeyMap defines key bindings while browsing the page
type pageKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Section  key.Binding
	Join     key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Join, k.Retry, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Section},
		{k.Join, k.Retry, k.Help, k.Quit},
	}
}

// formKeyMap defines key bindings while the email input has focus
type formKeyMap struct {
	Submit key.Binding
	Leave  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Leave}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Leave}}
}

func newPageKeyMap() pageKeyMap {
	return pageKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " ", "f"),
			key.WithHelp("pgdn/space", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Section: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "jump to section"),
		),
		Join: key.NewBinding(
			key.WithKeys("tab", "w"),
			key.WithHelp("tab/w", "join waitlist"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc", "back to page"),
		),
	}
}
