package ui

import "github.com/charmbracelet/bubbles/key"

// listKeys holds key bindings while the contact list has focus.
type listKeys struct {
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Clear  key.Binding
	Tab    key.Binding
	Quit   key.Binding
}

// ShortHelp returns the list bindings for the help bar.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.Add, k.Edit, k.Delete, k.Clear, k.Tab, k.Quit}
}

// FullHelp returns the list bindings grouped for expanded help.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load},
		{k.Add, k.Edit, k.Delete, k.Clear},
		{k.Tab, k.Quit},
	}
}

// formKeys holds key bindings while the entry form has focus.
type formKeys struct {
	Next key.Binding
	Prev key.Binding
	Tab  key.Binding
	Back key.Binding
}

// ShortHelp returns the form bindings for the help bar.
func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Tab, k.Back}
}

// FullHelp returns the form bindings grouped for expanded help.
func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Tab, k.Back},
	}
}

// noticeKeys holds key bindings while a notice is shown.
type noticeKeys struct {
	Dismiss key.Binding
}

// ShortHelp returns the notice bindings for the help bar.
func (k noticeKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss}
}

// FullHelp returns the notice bindings grouped for expanded help.
func (k noticeKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Dismiss}}
}

// ListKeyMap returns the key bindings for the contact list.
func ListKeyMap() listKeys {
	return listKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load into form"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c/esc", "clear"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "form"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FormKeyMap returns the key bindings for the entry form.
func FormKeyMap() formKeys {
	return formKeys{
		Next: key.NewBinding(
			key.WithKeys("enter", "down"),
			key.WithHelp("enter/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "prev field"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// NoticeKeyMap returns the key bindings for a shown notice.
func NoticeKeyMap() noticeKeys {
	return noticeKeys{
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "dismiss"),
		),
	}
}

// quitKey quits from anywhere, including the form and notices.
var quitKey = key.NewBinding(key.WithKeys("ctrl+c"))
