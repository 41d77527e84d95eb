package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagDailyAll bool

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Spending per day",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().BoolVar(&flagDailyAll, "all-days", false, "Include days without receipts")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
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

	days := pipeline.DailySeries(receipts)
	if flagDailyAll {
		days = pipeline.FillDays(days, rng)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAILY SPENDING  " + rng.String()))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	values := make([]float64, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			cli.FormatDay(d.Date),
			cli.FormatAmount(d.Total),
		})
		values = append(values, d.Total.InexactFloat64())
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"Date", "Total"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true},
	}))
	if len(values) > 1 {
		fmt.Println()
		fmt.Println("  " + cli.RenderSparkline(values))
	}
	return nil
}
