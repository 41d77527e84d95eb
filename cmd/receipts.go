package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var receiptsCmd = &cobra.Command{
	Use:     "receipts",
	Aliases: []string{"history"},
	Short:   "Expense history, one row per item",
	RunE:    runReceipts,
}

func init() {
	rootCmd.AddCommand(receiptsCmd)
}

func runReceipts(_ *cobra.Command, _ []string) error {
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

	expenses := pipeline.Flatten(receipts)
	rows := make([][]string, 0, len(expenses))
	for _, x := range expenses {
		rows = append(rows, []string{
			x.Date.String(),
			cli.Truncate(x.Company, 24),
			cli.Truncate(x.ItemName, 32),
			x.Category.Label(),
			cli.FormatAmount(x.Price),
		})
	}

	sum := pipeline.Summarize(receipts, rng)
	rows = append(rows,
		[]string{cli.Separator},
		[]string{"", fmt.Sprintf("%d receipts", sum.Receipts), fmt.Sprintf("%d items", sum.Items), "", cli.FormatAmount(sum.Total)},
	)

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXPENSES  " + rng.String()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"Date", "Company", "Item", "Category", "Price"},
		Rows:       rows,
		RightAlign: map[int]bool{4: true},
	}))
	return nil
}
