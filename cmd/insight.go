package cmd

import (
	"fmt"

	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/spf13/cobra"
)

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Short AI-written note about spending in the selected period",
	RunE:  runInsight,
}

func init() {
	rootCmd.AddCommand(insightCmd)
}

func runInsight(cmd *cobra.Command, _ []string) error {
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

	text, err := generateInsight(cmd.Context(), e, insight.Request{
		Range:      rng,
		Categories: pipeline.SortedCategories(receipts),
		Companies:  pipeline.TopCompanies(receipts, 10),
		Total:      pipeline.Summarize(receipts, rng).Total,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s\n", rng)
	printInsight(text)
	return nil
}
