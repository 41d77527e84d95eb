package components

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ShareBar renders a labelled bar filled to share percent (0-100), followed
// by the amount and the share.
func ShareBar(label string, share float64, amount string, color lipgloss.Color, labelW, barW int) string {
	t := theme.Active

	pct := min(max(share/100, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Track)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	shareStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	return labelStyle.Render(runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW)) +
		" " + bar.ViewAs(pct) +
		" " + amountStyle.Render(fmt.Sprintf("%10s", amount)) +
		" " + shareStyle.Render(fmt.Sprintf("%5.1f%%", share))
}

// CategoryBars renders one ShareBar per category total, colored by category.
// Keys that are not category names use the muted color.
func CategoryBars(totals []model.KeyTotal, format func(model.KeyTotal) string, width int) string {
	t := theme.Active
	labelW := 15
	barW := max(width-labelW-20, 8)

	out := ""
	for i, kt := range totals {
		label, color := kt.Key, t.TextMuted
		if c, err := model.ParseCategory(kt.Key); err == nil {
			label, color = c.Label(), t.CategoryColor(c)
		}
		if i > 0 {
			out += "\n"
		}
		out += ShareBar(label, kt.Share, format(kt), color, labelW, barW)
	}
	return out
}

// CompanyBars renders one ShareBar per company in the accent color.
func CompanyBars(totals []model.KeyTotal, format func(model.KeyTotal) string, width int) string {
	t := theme.Active
	labelW := 20
	barW := max(width-labelW-20, 8)

	out := ""
	for i, kt := range totals {
		if i > 0 {
			out += "\n"
		}
		out += ShareBar(kt.Key, kt.Share, format(kt), t.Accent, labelW, barW)
	}
	return out
}
