package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	if flagDir != "" {
		cfg.General.WorkingDir = flagDir
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Working dir:   %s\n", cfg.WorkingDir())
	fmt.Printf("    Default range: %s\n", cfg.General.DefaultRange)
	fmt.Println()

	fmt.Println("  [OpenAI]")
	if cfg.OpenAI.APIKey != "" {
		fmt.Printf("    API key:  %s\n", maskAPIKey(cfg.OpenAI.APIKey))
	} else {
		fmt.Println("    API key:  not configured")
	}
	fmt.Printf("    Model:    %s\n", cfg.OpenAI.Model)
	if cfg.OpenAI.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.OpenAI.BaseURL)
	}
	fmt.Printf("    Timeout:  %s\n", cfg.Timeout())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Addr: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  %v\n\n", err)
	}
	fmt.Println("  Run `moneymate setup` to reconfigure.")
	return nil
}
