package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Underline(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2).
			Margin(0, 1, 1, 0)

	CardSymbolStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary)

	CardBalanceStyle = lipgloss.NewStyle().
				Foreground(palette.Text).
				Bold(true)

	SkeletonStyle = lipgloss.NewStyle().
			Foreground(palette.BackgroundAlt).
			Background(palette.BackgroundAlt)
)

// Button styles
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true)

	DangerButtonStyle = lipgloss.NewStyle().
				Foreground(palette.Error).
				Border(lipgloss.NormalBorder()).
				BorderForeground(palette.Error).
				Padding(0, 1)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(palette.TextMuted).
				Background(palette.BackgroundAlt).
				Padding(0, 2)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Change styles
var (
	GainStyle = lipgloss.NewStyle().Foreground(palette.Gain)
	LossStyle = lipgloss.NewStyle().Foreground(palette.Loss)
	FlatStyle = lipgloss.NewStyle().Foreground(palette.Flat)
)

// Help bar style
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(palette.TextMuted).
		Margin(1, 0, 0, 0).
		Italic(true)
)

// LogStyles provides styling for the log viewer
type LogStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Entry     lipgloss.Style
	Timestamp lipgloss.Style
	Logger    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Debug     lipgloss.Style
}

// NewLogStyles creates log viewer styles
func NewLogStyles(palette Palette) LogStyles {
	return LogStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Entry: lipgloss.NewStyle().
			Foreground(palette.Text),

		Timestamp: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Logger: lipgloss.NewStyle().
			Foreground(palette.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(palette.Info),

		Debug: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// AdaptiveColumns returns how many cards of cardWidth fit in width, at least one
func AdaptiveColumns(width, cardWidth int) int {
	if cardWidth <= 0 || width < cardWidth {
		return 1
	}
	return width / cardWidth
}
