package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/moneymate/internal/tui"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if flagFrom != "" || flagTo != "" {
		return errors.New("the dashboard works on named periods; use --period instead of --from/--to")
	}

	// Logs would corrupt the alternate screen.
	flagQuiet = true
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	theme.SetActive(e.cfg.Appearance.Theme)
	lipgloss.SetColorProfile(termenv.TrueColor)

	period := flagPeriod
	if period == "" {
		period = e.cfg.General.DefaultRange
	}

	app := tui.NewApp(e.store, period)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
