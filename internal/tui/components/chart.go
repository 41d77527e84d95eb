package components

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := max(slices.Max(values), 0)
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// DailyChart renders daily totals as a bar chart labelled with month-day.
func DailyChart(days []model.DailyTotal, width, height int) string {
	values := make([]float64, len(days))
	labels := make([]string, len(days))
	for i, d := range days {
		values[i] = d.Total.InexactFloat64()
		labels[i] = d.Date.String()[5:]
	}
	return BarChart(values, labels, theme.Active.Spend, width, height)
}

// BarChart renders a vertical bar chart with a y-axis and sampled x labels.
// Too many values for the width are sampled down to fit.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := slices.Max(values)
	if peak <= 0 {
		peak = 1
	}
	step, intervals := yTicks(peak, max(height/2, 2))
	ceiling := step * float64(intervals)
	rowsPerTick := max(height/intervals, 2)
	chartH := rowsPerTick * intervals

	labelW := max(len(formatChartLabel(ceiling))+1, 4)
	chartW := max(width-labelW-1, 5)

	values, labels = fitBars(values, labels, chartW)
	n := len(values)
	gap := 1
	barW := chartW
	if n > 1 {
		barW = min((chartW-(n-1))/n, 6)
	} else {
		gap = 0
		barW = min(barW, 6)
	}
	axisLen := n*barW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		barColor := t.Accent
		switch pct := float64(row) / float64(chartH); {
		case pct > 0.8:
			barColor = t.AccentBright
		case pct > 0.5:
			barColor = color
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor)

		tick := ""
		if row%rowsPerTick == 0 {
			tick = formatChartLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", labelW, tick)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			b.WriteString(barStyle.Render(strings.Repeat(barCell(v, bottom, top), barW)))
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", labelW+1))
		b.WriteString(axisStyle.Render(xLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// barCell returns the glyph for a bar of value v within the row [bottom, top).
func barCell(v, bottom, top float64) string {
	switch {
	case v >= top:
		return "█"
	case v > bottom:
		idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)))
		return string(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}
	return " "
}

// fitBars samples values so that bars at least two cells wide fit in width.
func fitBars(values []float64, labels []string, width int) ([]float64, []string) {
	n := len(values)
	maxN := max((width+1)/3, 2)
	if n <= maxN {
		return values, labels
	}
	sampled := make([]float64, maxN)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, maxN)
	}
	for i := range sampled {
		src := i * (n - 1) / (maxN - 1)
		sampled[i] = values[src]
		if sampledLabels != nil {
			sampledLabels[i] = labels[src]
		}
	}
	return sampled, sampledLabels
}

// xLabels places labels under their bars, skipping any that would overlap.
// The last label is always shown when it fits.
func xLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	place := func(i int) {
		pos := i * pitch
		lbl := labels[i]
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := 0; i < len(labels)-1; i++ {
		place(i)
	}
	place(len(labels) - 1)
	return strings.TrimRight(string(buf), " ")
}

// yTicks picks a round tick step for peak and the number of intervals
// needed to reach it, at most maxIntervals.
func yTicks(peak float64, maxIntervals int) (float64, int) {
	step := chartTickStep(peak)
	for int(math.Ceil(peak/step)) > maxIntervals {
		step *= 2
	}
	return step, max(int(math.Ceil(peak/step)), 1)
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel shortens amounts for the y-axis: 1500 -> 1.5k.
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
