package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the saved file, not env overrides, so they are not persisted.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var apiKey string
	workingDir := cfg.General.WorkingDir
	if workingDir == "" {
		workingDir = config.DataDir()
	}
	defaultRange := cfg.General.DefaultRange
	themeName := cfg.Appearance.Theme
	modelName := cfg.OpenAI.Model

	keyDescription := "Used to read receipts and write insights. Leave blank to keep the current key."
	if cfg.OpenAI.APIKey != "" {
		keyDescription = "Current: " + maskAPIKey(cfg.OpenAI.APIKey) + ". Leave blank to keep it."
	}

	rangeOptions := make([]huh.Option[string], 0, len(model.Periods))
	for _, p := range model.Periods {
		rangeOptions = append(rangeOptions, huh.NewOption(p, p))
	}
	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description(keyDescription).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Model").
				Value(&modelName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("model cannot be empty")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Working directory").
				Description("Where scanned_receipts.json is kept.").
				Value(&workingDir),
			huh.NewSelect[string]().
				Title("Default time range").
				Options(rangeOptions...).
				Value(&defaultRange),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&themeName),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	if k := strings.TrimSpace(apiKey); k != "" {
		cfg.OpenAI.APIKey = k
	}
	cfg.OpenAI.Model = strings.TrimSpace(modelName)
	cfg.General.WorkingDir = strings.TrimSpace(workingDir)
	cfg.General.DefaultRange = defaultRange
	cfg.Appearance.Theme = themeName

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `moneymate setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
