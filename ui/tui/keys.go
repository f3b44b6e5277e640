package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Edit     key.Binding
	Save     key.Binding
	Public   key.Binding
	SlowUp   key.Binding
	SlowDown key.Binding
	Title    key.Binding
	About    key.Binding
	Refresh  key.Binding
	Select   key.Binding
	Delete   key.Binding
	Activity key.Binding
	Console  key.Binding
	Back     key.Binding
	Confirm  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next page")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous page")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Public:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "public/private")),
		SlowUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "slower")),
		SlowDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "faster")),
		Title:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title")),
		About:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "about")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Select:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "select")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Activity: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activity")),
		Console:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "console")),
		Back:     key.NewBinding(key.WithKeys("b", "esc", "backspace"), key.WithHelp("b", "back")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	}
}
