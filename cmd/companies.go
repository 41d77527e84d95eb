package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTop int

var companiesCmd = &cobra.Command{
	Use:     "companies",
	Aliases: []string{"vendors"},
	Short:   "Companies ranked by spending",
	RunE:    runCompanies,
}

func init() {
	companiesCmd.Flags().IntVar(&flagTop, "top", 10, "Number of companies to show (0 for all)")
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(_ *cobra.Command, _ []string) error {
	if flagTop < 0 {
		return fmt.Errorf("--top must not be negative, got %d", flagTop)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	receipts, rng, err := e.filtered()
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		printEmpty(rng)
		return nil
	}

	top := pipeline.TopCompanies(receipts, flagTop)

	fmt.Println()
	fmt.Println(cli.RenderTitle("TOP COMPANIES  " + rng.String()))
	fmt.Println()
	printBreakdown("Company", top)
	fmt.Println()
	printBars(top, 20)
	return nil
}
