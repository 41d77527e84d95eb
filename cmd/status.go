package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/moneymate/internal/cli"

	"github.com/spf13/cobra"
)

var flagStatusRecent int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the receipt store and recent scans",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&flagStatusRecent, "recent", 10, "Number of recent scans to list")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Println()
	fmt.Printf("  Store:    %s\n", e.store.Path())
	fmt.Printf("  Receipts: %s\n", cli.FormatNumber(int64(e.store.Len())))
	for _, w := range e.store.Warnings() {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn(w.Error()))
	}

	if e.scans == nil {
		fmt.Println("  Scan history: disabled")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := e.scans.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  Scans:    %s\n", cli.FormatNumber(int64(n)))
	if n == 0 || flagStatusRecent <= 0 {
		return nil
	}

	recent, err := e.scans.Recent(ctx, flagStatusRecent)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(recent))
	for _, s := range recent {
		rows = append(rows, []string{
			s.ScannedAt.Local().Format("2006-01-02 15:04"),
			cli.Truncate(s.Filename, 28),
			cli.Truncate(s.Company, 24),
			s.ReceiptDate.String(),
			cli.FormatNumber(int64(s.ItemCount)),
			cli.FormatAmount(s.Total),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "RECENT SCANS",
		Headers:    []string{"Scanned", "File", "Company", "Date", "Items", "Total"},
		Rows:       rows,
		RightAlign: map[int]bool{4: true, 5: true},
	}))
	return nil
}
