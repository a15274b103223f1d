package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/style"
)

// CardWidth is the outer width of a position card including its margin
const CardWidth = 30

// SkeletonCount is the number of placeholder cards shown while positions load
const SkeletonCount = 4

// innerWidth is the text width inside the border and padding
const innerWidth = CardWidth - 1 - 2 - 4

// PositionCard renders one holding: symbol and signed 24h change on top, balance with
// symbol, then the USD value.
func PositionCard(p domain.Position) string {
	symbol := style.CardSymbolStyle.Render(p.Symbol)
	change := changeStyle(p.Direction()).Render(domain.FormatChange(p.Change24h))

	lines := []string{
		spread(symbol, change),
		"",
		style.CardBalanceStyle.Render(truncate(domain.FormatBalance(p.Balance)+" "+p.Symbol, innerWidth)),
		style.MutedStyle.Render(domain.FormatUSD(p.ValueUSD)),
	}

	return style.CardStyle.Width(innerWidth + 4).Render(strings.Join(lines, "\n"))
}

// SkeletonCard renders a placeholder shaped like a position card
func SkeletonCard() string {
	bar := func(n int) string {
		return style.SkeletonStyle.Render(strings.Repeat("░", n))
	}

	lines := []string{
		spread(bar(innerWidth*2/5), bar(innerWidth/4)),
		"",
		bar(innerWidth * 4 / 5),
		bar(innerWidth / 2),
	}

	return style.CardStyle.Width(innerWidth + 4).Render(strings.Join(lines, "\n"))
}

// Grid lays cards out in rows that fit width
func Grid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}

	cols := style.AdaptiveColumns(width, CardWidth)
	rows := make([]string, 0, (len(cards)+cols-1)/cols)
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func changeStyle(d domain.Direction) lipgloss.Style {
	switch d {
	case domain.DirectionUp:
		return style.GainStyle
	case domain.DirectionDown:
		return style.LossStyle
	default:
		return style.FlatStyle
	}
}

func spread(left, right string) string {
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
