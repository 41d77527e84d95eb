// Package tui provides the interactive Bubble Tea dashboard for moneymate.
package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
	"github.com/theirongolddev/moneymate/internal/store"
	"github.com/theirongolddev/moneymate/internal/tui/components"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source supplies receipts to the dashboard. *store.Store satisfies it.
type Source interface {
	Reload() error
	Receipts() []model.Receipt
	Warnings() []store.LineError
}

// DataLoadedMsg is sent when the store has been (re)read.
type DataLoadedMsg struct {
	Receipts []model.Receipt
	Skipped  int
	LoadedAt time.Time
	Err      error
}

const (
	tabOverview = iota
	tabReceipts
	tabDaily
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	chromeHeight     = 4 // tab bar, rule, status bar, spacing
)

// App is the root Bubble Tea model.
type App struct {
	src Source
	now func() time.Time

	// Data
	all      []model.Receipt
	skipped  int
	loaded   bool
	loading  bool
	loadedAt time.Time
	loadErr  error

	// Pre-computed for the current period
	periodIdx  int
	rng        model.DateRange
	receipts   []model.Receipt
	summary    model.Summary
	categories []model.KeyTotal
	companies  []model.KeyTotal
	daily      []model.DailyTotal

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
	table     table.Model
}

// NewApp creates the dashboard showing period, one of model.Periods.
func NewApp(src Source, period string) App {
	idx := slices.Index(model.Periods, period)
	if idx < 0 {
		idx = slices.Index(model.Periods, model.PeriodMonth)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		src:       src,
		now:       time.Now,
		periodIdx: idx,
		loading:   true,
		spinner:   sp,
		table:     newReceiptTable(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, loadCmd(a.src, a.now))
}

func loadCmd(src Source, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := src.Reload(); err != nil {
			return DataLoadedMsg{Err: err, LoadedAt: now()}
		}
		return DataLoadedMsg{
			Receipts: src.Receipts(),
			Skipped:  len(src.Warnings()),
			LoadedAt: now(),
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTable()
		return a, nil

	case DataLoadedMsg:
		a.loading = false
		a.loaded = true
		a.loadedAt = msg.LoadedAt
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.all = msg.Receipts
			a.skipped = msg.Skipped
		}
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if a.showHelp {
		if key == "?" || key == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	case "]":
		a.periodIdx = (a.periodIdx + 1) % len(model.Periods)
		a.recompute()
		return a, nil
	case "[":
		a.periodIdx = (a.periodIdx + len(model.Periods) - 1) % len(model.Periods)
		a.recompute()
		return a, nil
	case "r":
		if a.loading {
			return a, nil
		}
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, loadCmd(a.src, a.now))
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab == tabReceipts {
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd
	}
	return a, nil
}

// Period returns the name of the period being shown.
func (a App) Period() string {
	return model.Periods[a.periodIdx]
}

// recompute filters the loaded receipts to the current period and refreshes
// every derived view.
func (a *App) recompute() {
	// Every entry of model.Periods resolves.
	a.rng, _ = model.RangeForPeriod(a.Period(), a.now())

	a.receipts = nil
	for _, r := range a.all {
		if a.rng.Contains(r.Date) {
			a.receipts = append(a.receipts, r)
		}
	}

	a.summary = pipeline.Summarize(a.receipts, a.rng)
	a.categories = pipeline.SortedCategories(a.receipts)
	a.companies = pipeline.TopCompanies(a.receipts, 8)
	a.daily = pipeline.FillDays(pipeline.DailySeries(a.receipts), a.rng)

	rows := make([]table.Row, 0, a.summary.Items)
	for _, x := range pipeline.Flatten(a.receipts) {
		rows = append(rows, table.Row{
			x.Date.String(),
			x.Company,
			x.ItemName,
			x.Category.Label(),
			cli.FormatAmount(x.Price),
		})
	}
	a.table.SetRows(rows)
	a.table.GotoTop()
}

func newReceiptTable() table.Model {
	t := theme.Active
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(t.TextPrimary).
		Background(t.Selected)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary)

	return table.New(
		table.WithColumns(receiptColumns(100)),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

// receiptColumns sizes the expense columns to width; company and item share
// whatever the fixed columns leave.
func receiptColumns(width int) []table.Column {
	const fixed = 10 + 14 + 12 + 10 // date, category, price, cell padding
	flex := max(width-fixed, 20)
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Company", Width: flex * 2 / 5},
		{Title: "Item", Width: flex - flex*2/5},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 12},
	}
}

func (a *App) resizeTable() {
	w := a.contentWidth()
	a.table.SetColumns(receiptColumns(w - 4))
	a.table.SetWidth(w - 2)
	a.table.SetHeight(max(a.height-chromeHeight-4, 3))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) dataAge() string {
	if a.loadedAt.IsZero() {
		return ""
	}
	age := a.now().Sub(a.loadedAt).Round(time.Second)
	if age < time.Minute {
		return "just now"
	}
	return fmt.Sprintf("%s ago", age)
}
