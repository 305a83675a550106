package ui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active.
type GlobalKeys struct {
	Quit key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+c", "quit"),
	),
}

// MainKeys are active on the main view.
type MainKeys struct {
	Start    key.Binding
	Settings key.Binding
	Export   key.Binding
	Quit     key.Binding
}

var mainKeys = MainKeys{
	Start: key.NewBinding(
		key.WithKeys("enter", "n"),
		key.WithHelp("Enter", "start"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export CSV"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// TrackingKeys are active while an interruption is tracked. Plain keys go to
// the memo field.
type TrackingKeys struct {
	NextType key.Binding
	PrevType key.Binding
	Complete key.Binding
	Discard  key.Binding
}

var trackingKeys = TrackingKeys{
	NextType: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "task type"),
	),
	PrevType: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
	),
	Complete: key.NewBinding(
		key.WithKeys("ctrl+s", "enter"),
		key.WithHelp("Enter", "complete"),
	),
	Discard: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("Ctrl+x", "discard"),
	),
}

// SettingsKeys are active on the settings view.
type SettingsKeys struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Add    key.Binding
	Delete key.Binding
	Grab   key.Binding
	Back   key.Binding
}

var settingsKeys = SettingsKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab", "left", "right", "h", "l"),
		key.WithHelp("Tab", "switch list"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "d", "delete"),
		key.WithHelp("x", "delete"),
	),
	Grab: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "grab/drop"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("Esc", "back"),
	),
}

// ListKeys move through a picker.
type ListKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var listKeys = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}

// ConfirmKeys answer a yes/no dialog.
type ConfirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

var confirmKeys = ConfirmKeys{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
}

// FormKeys submit or cancel a text input dialog.
type FormKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

var formKeys = FormKeys{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "ok"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}
