package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. warning, when set, replaces
// the key hints.
func RenderStatusBar(width int, dataAge, warning string) string {
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(t.TextMuted).Width(width)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning)

	left := " [ ] period  [r]eload  [?]help  [q]uit"
	if warning != "" {
		left = " " + warnStyle.Render(warning)
	}
	right := ""
	if dataAge != "" {
		right = fmt.Sprintf("Data: %s ", dataAge)
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
