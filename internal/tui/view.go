package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  moneymate needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Padding(1, 3).
		Render(
			lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("◈ moneymate") + "\n\n" +
				a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Reading receipts..."),
		)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	bindings := [][2]string{
		{"1 2 3", "switch tab"},
		{"tab", "next tab"},
		{"[ ]", "previous / next period"},
		{"r", "reload receipts from disk"},
		{"↑ ↓ pgup pgdn", "scroll receipts"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		b.WriteString(keyStyle.Render(kb[0]) + descStyle.Render(kb[1]) + "\n")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Padding(1, 3).
		Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.contentWidth()

	period := a.Period() + "  " + a.rng.String()
	header := components.RenderTabBar(a.activeTab, period, w)
	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", w))

	var body string
	switch {
	case a.loadErr != nil:
		body = lipgloss.NewStyle().Foreground(t.Error).Render("  Could not read receipts: " + a.loadErr.Error())
	case len(a.receipts) == 0:
		body = a.viewEmpty()
	default:
		switch a.activeTab {
		case tabOverview:
			body = a.viewOverview(w)
		case tabReceipts:
			body = a.viewReceipts(w)
		case tabDaily:
			body = a.viewDaily(w)
		}
	}

	warning := ""
	if a.skipped > 0 {
		warning = fmt.Sprintf("%d corrupt lines skipped", a.skipped)
	}
	status := components.RenderStatusBar(w, a.dataAge(), warning)

	bodyH := max(a.height-chromeHeight, 1)
	body = fitHeight(body, bodyH)
	return lipgloss.JoinVertical(lipgloss.Left, header, rule, body, status)
}

func (a App) viewEmpty() string {
	t := theme.Active
	return "\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Render(
		fmt.Sprintf("  No receipts for %s.\n  Press ] to widen the period or scan some with `moneymate scan`.", a.rng))
}

func (a App) viewOverview(w int) string {
	s := a.summary
	metrics := []components.Metric{
		{Label: "Total", Value: cli.FormatAmount(s.Total)},
		{Label: "Receipts", Value: cli.FormatNumber(int64(s.Receipts)), Note: fmt.Sprintf("%d items", s.Items)},
		{Label: "Per receipt", Value: cli.FormatAmount(s.AveragePerReceipt)},
		{Label: "Per active day", Value: cli.FormatAmount(s.PerActiveDay), Note: fmt.Sprintf("%d days", s.ActiveDays)},
	}
	cards := components.MetricCardRow(metrics, w)

	amount := func(kt model.KeyTotal) string { return cli.FormatAmount(kt.Total) }
	var panels string
	if w >= 120 {
		half := components.LayoutRow(w, 2)
		panels = lipgloss.JoinHorizontal(lipgloss.Top,
			components.ContentCard("By category", components.CategoryBars(a.categories, amount, components.CardInnerWidth(half[0])), half[0]),
			components.ContentCard("Top companies", components.CompanyBars(a.companies, amount, components.CardInnerWidth(half[1])), half[1]),
		)
	} else {
		inner := components.CardInnerWidth(w)
		panels = lipgloss.JoinVertical(lipgloss.Left,
			components.ContentCard("By category", components.CategoryBars(a.categories, amount, inner), w),
			components.ContentCard("Top companies", components.CompanyBars(a.companies, amount, inner), w),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards, panels)
}

func (a App) viewReceipts(w int) string {
	t := theme.Active
	footer := lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf(
		"  %d of %d items   total %s",
		a.table.Cursor()+1, len(a.table.Rows()), cli.FormatAmount(a.summary.Total)))
	return components.ContentCard("", a.table.View(), w) + "\n" + footer
}

func (a App) viewDaily(w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	chartH := max(a.height-chromeHeight-8, 4)
	chart := components.DailyChart(a.daily, inner, chartH)

	var peak model.DailyTotal
	for _, d := range a.daily {
		if d.Total.GreaterThan(peak.Total) {
			peak = d
		}
	}
	note := ""
	if !peak.Date.IsZero() {
		note = lipgloss.NewStyle().Foreground(t.TextMuted).Render(
			fmt.Sprintf("Busiest day %s  %s", cli.FormatDay(peak.Date), cli.FormatAmount(peak.Total)))
	}
	return components.ContentCard("Daily spending", chart+"\n\n"+note, w)
}

// fitHeight pads or cuts s to exactly h lines.
func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
