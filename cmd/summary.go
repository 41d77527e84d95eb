package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagSummaryInsight bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary for the selected period",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagSummaryInsight, "insight", false, "Append an AI-written note about the period")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
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

	stats := pipeline.Summarize(receipts, rng)

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING  " + rng.String()))
	fmt.Println()

	total := cli.FormatAmount(stats.Total)
	if prev, ok := rng.Previous(); ok {
		prevStats := pipeline.Summarize(e.store.Filter(prev), prev)
		if prevStats.Total.IsPositive() {
			total += "  (" + formatDelta(stats.Total, prevStats.Total) + " vs previous)"
		}
	}

	rows := [][]string{
		{"Receipts", cli.FormatNumber(int64(stats.Receipts))},
		{"Items", cli.FormatNumber(int64(stats.Items))},
		{"Companies", cli.FormatNumber(int64(stats.Companies))},
		{cli.Separator},
		{"Total", total},
		{"Per receipt", cli.FormatAmount(stats.AveragePerReceipt)},
		{"Per active day", fmt.Sprintf("%s  (%d days)", cli.FormatAmount(stats.PerActiveDay), stats.ActiveDays)},
	}

	cats := pipeline.SortedCategories(receipts)
	if len(cats) > 0 {
		rows = append(rows, []string{cli.Separator})
		c, _ := model.ParseCategory(cats[0].Key)
		rows = append(rows, []string{"Top category", fmt.Sprintf("%s  %s", c.Label(), cli.FormatShare(cats[0].Share))})
	}
	companies := pipeline.TopCompanies(receipts, 10)
	if len(companies) > 0 {
		rows = append(rows, []string{"Top company", fmt.Sprintf("%s  %s", cli.Truncate(companies[0].Key, 24), cli.FormatShare(companies[0].Share))})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if !flagSummaryInsight {
		return nil
	}

	text, err := generateInsight(cmd.Context(), e, insight.Request{
		Range:      rng,
		Categories: cats,
		Companies:  companies,
		Total:      stats.Total,
	})
	if err != nil {
		// The summary itself succeeded.
		fmt.Fprintln(os.Stderr, "\n  "+cli.Warn("Insight unavailable: "+err.Error()))
		return nil
	}
	printInsight(text)
	return nil
}

func formatDelta(cur, prev decimal.Decimal) string {
	pct := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func generateInsight(ctx context.Context, e *env, req insight.Request) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gen, err := e.insightGenerator()
	if err != nil {
		return "", err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Asking %s for an insight...\n", e.cfg.OpenAI.Model)
	}
	text, err := gen.Generate(ctx, req)
	if errors.Is(err, insight.ErrNoData) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("generating insight: %w", err)
	}
	return text, nil
}

func printInsight(text string) {
	fmt.Println()
	fmt.Println("  " + cli.Muted("INSIGHT"))
	for _, line := range wrap(text, 72) {
		fmt.Println("  " + line)
	}
	fmt.Println()
}
