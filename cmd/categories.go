package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending per category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
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

	totals := pipeline.SortedCategories(receipts)
	labels := make([]model.KeyTotal, len(totals))
	for i, kt := range totals {
		labels[i] = kt
		if c, err := model.ParseCategory(kt.Key); err == nil {
			labels[i].Key = c.Label()
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BY CATEGORY  " + rng.String()))
	fmt.Println()
	printBreakdown("Category", labels)
	fmt.Println()
	printBars(labels, 16)
	return nil
}

// printBreakdown renders a ranked key/total/share table.
func printBreakdown(keyHeader string, totals []model.KeyTotal) {
	rows := make([][]string, 0, len(totals))
	for _, kt := range totals {
		rows = append(rows, []string{
			cli.Truncate(kt.Key, 32),
			cli.FormatAmount(kt.Total),
			cli.FormatShare(kt.Share),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{keyHeader, "Total", "Share"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true},
	}))
}

// printBars draws one horizontal bar per entry, scaled to the largest total.
func printBars(totals []model.KeyTotal, labelWidth int) {
	if len(totals) == 0 {
		return
	}
	maxValue := totals[0].Total.InexactFloat64()
	for _, kt := range totals {
		fmt.Println(cli.RenderBar(
			kt.Key,
			labelWidth,
			kt.Total.InexactFloat64(),
			maxValue,
			30,
			cli.FormatAmount(kt.Total),
		))
	}
}
