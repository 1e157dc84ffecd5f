package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down     key.Binding
	Edit, Delete key.Binding
	Prev, Next   key.Binding
	PageSize     key.Binding
	Refresh, New key.Binding
	Save         key.Binding
	Focus        key.Binding
	FocusBack    key.Binding
	Help, Quit   key.Binding
	Dismiss      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		PageSize:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "rows/page")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		FocusBack: key.NewBinding(key.WithKeys("shift+tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Edit, k.Delete, k.New, k.Save, k.Prev, k.Next, k.PageSize, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next, k.PageSize},
		{k.Edit, k.Delete, k.New, k.Refresh},
		{k.Focus, k.Save, k.Dismiss, k.Help, k.Quit},
	}
}
