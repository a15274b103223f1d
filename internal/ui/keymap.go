package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Dashboard
	Connect    key.Binding
	Disconnect key.Binding
	Refresh    key.Binding
	Export     key.Binding
	Logs       key.Binding

	// Logs
	FilterError key.Binding
	FilterWarn  key.Binding
	FilterInfo  key.Binding
	FilterAll   key.Binding
	Tail        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Global navigation
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		// Dashboard
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect wallet"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disconnect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logs"),
		),

		// Logs
		FilterError: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "errors"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "warnings"),
		),
		FilterInfo: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "info"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "all"),
		),
		Tail: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tail"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Logs, k.Quit}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteDashboard:
		return []key.Binding{k.Connect, k.Disconnect, k.Refresh, k.Export, k.Logs, k.Quit}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.FilterError, k.FilterWarn, k.FilterInfo, k.FilterAll, k.Tail, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
