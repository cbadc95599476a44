package session

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all key bindings the controller reacts to
type KeyMap struct {
	ForceQuit   key.Binding
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Search      key.Binding
	Mode        key.Binding
	Edit        key.Binding
	Delete      key.Binding
	New         key.Binding
	Tags        key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Build       key.Binding
	Star        key.Binding
	Copy        key.Binding

	// Overlay and text-entry keys
	Cancel    key.Binding
	Yes       key.Binding
	No        key.Binding
	Toggle    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Left      key.Binding
	Right     key.Binding
	Backspace key.Binding
	DeleteCh  key.Binding
	Home      key.Binding
	End       key.Binding
	AddTag    key.Binding
	RemoveTag key.Binding
	Finish    key.Binding
	ListUp    key.Binding
	ListDown  key.Binding
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+c", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("q/Esc", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "copy & quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "switch mode"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Tags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tags"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter tags"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filter"),
		),
		Build: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "build"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),

		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "tab"),
			key.WithHelp("Space", "toggle"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		DeleteCh:  key.NewBinding(key.WithKeys("delete")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		AddTag: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add tag"),
		),
		RemoveTag: key.NewBinding(
			key.WithKeys("r", "d"),
			key.WithHelp("r", "remove tag"),
		),
		Finish: key.NewBinding(
			key.WithKeys("enter", "y", " "),
			key.WithHelp("Enter", "copy result"),
		),
		ListUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		ListDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
	}
}

// typed returns the text a key event inserts, if any
func typed(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return "", false
		}
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

// editText applies cursor movement and deletion keys to buf. It reports
// whether the event was consumed.
func (k KeyMap) editText(buf *TextBuffer, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, k.Backspace):
		buf.Backspace()
	case key.Matches(msg, k.DeleteCh):
		buf.Delete()
	case key.Matches(msg, k.Left):
		buf.Left()
	case key.Matches(msg, k.Right):
		buf.Right()
	case key.Matches(msg, k.Home):
		buf.Home()
	case key.Matches(msg, k.End):
		buf.End()
	default:
		if s, ok := typed(msg); ok {
			buf.Insert(s)
			return true
		}
		return false
	}
	return true
}
