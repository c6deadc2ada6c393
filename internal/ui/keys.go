package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Animate        key.Binding
	Requested      key.Binding
	DriverAssigned key.Binding
	EnRoute        key.Binding
	Arrived        key.Binding
	InProgress     key.Binding
	Completed      key.Binding
	Grant          key.Binding
	Quit           key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Animate:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "animate")),
		Requested:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "requested")),
		DriverAssigned: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "driver assigned")),
		EnRoute:        key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "en route")),
		Arrived:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "arrived")),
		InProgress:     key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "in progress")),
		Completed:      key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "completed")),
		Grant:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grant permission")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// rideKeys is the help.KeyMap for the ride screen.
type rideKeys struct{ keyMap }

func (k rideKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Animate, k.Requested, k.DriverAssigned, k.EnRoute, k.Arrived, k.InProgress, k.Completed, k.Quit}
}

func (k rideKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Animate, k.Quit},
		{k.Requested, k.DriverAssigned, k.EnRoute},
		{k.Arrived, k.InProgress, k.Completed},
	}
}

// permissionKeys is the help.KeyMap for the permission screen.
type permissionKeys struct{ keyMap }

func (k permissionKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Grant, k.Quit}
}

func (k permissionKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
