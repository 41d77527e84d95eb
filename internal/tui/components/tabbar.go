package components

import (
	"strings"

	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: '1'},
	{Name: "Receipts", Key: '2'},
	{Name: "Daily", Key: '3'},
}

// RenderTabBar renders the tab bar with the given active index and a
// right-aligned period label.
func RenderTabBar(activeIdx int, period string, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	periodStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		name := inactiveStyle.Render(tab.Name)
		if i == activeIdx {
			name = activeStyle.Render(tab.Name)
		}
		parts[i] = keyStyle.Render(string(tab.Key)+" ") + name
	}

	left := " " + strings.Join(parts, "   ")
	right := periodStyle.Render(period) + " "
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
