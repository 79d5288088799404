package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	Debug      key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Checkout   key.Binding
	Checkin    key.Binding
	Inventory  key.Binding
	Escape     key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Actions
	Confirm      key.Binding
	Edit         key.Binding
	Search       key.Binding
	Toggle       key.Binding
	Submit       key.Binding
	NextField    key.Binding
	PrevField    key.Binding
	ClearMessage key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		Debug: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Diagnostics"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "Refresh from sheet"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous tab"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Check out"),
		),
		Checkin: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Check in"),
		),
		Inventory: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Inventory"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("j/k", "Move"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/G", "Top/bottom"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("i", "Fill in form"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle availability"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Submit checkout"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		ClearMessage: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Dismiss message"),
		),
	}
}

// ShortHelp returns bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Checkout, k.Checkin, k.Inventory, k.NextTab, k.PrevTab},
		{k.Up, k.Top, k.Confirm, k.Escape},
		{k.Edit, k.Submit, k.NextField, k.PrevField, k.Search, k.Toggle},
		{k.Refresh, k.Debug, k.CycleTheme, k.ClearMessage, k.Help, k.Quit},
	}
}
