package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/pipeline"
	"github.com/theirongolddev/moneymate/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagScanForce   bool
	flagScanWorkers int
)

var scanCmd = &cobra.Command{
	Use:   "scan <files or directories...>",
	Short: "Extract receipts from images or PDFs into the expense history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&flagScanForce, "force", false, "Store receipts even if the same file was scanned before")
	scanCmd.Flags().IntVar(&flagScanWorkers, "workers", 4, "Concurrent extractions")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	in, err := e.ingester()
	if err != nil {
		return err
	}

	files, err := source.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("\n  No receipt images or PDFs found.")
		return nil
	}

	uploads := make([]extract.Upload, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path) //nolint:gosec // paths are given by the user
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Path, err)
		}
		uploads = append(uploads, extract.Upload{Filename: filepath.Base(f.Path), Data: data})
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Scanning [%d/%d]", current, total)
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes := in.IngestAll(ctx, uploads, flagScanForce, flagScanWorkers, progressFn)

	rows := make([][]string, 0, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			rows = append(rows, []string{files[i].Path, "", "", "", scanFailure(o.Err)})
			continue
		}
		r := o.Result.Receipt
		status := "stored"
		if o.Result.Duplicate {
			status = "stored (rescan)"
		}
		rows = append(rows, []string{
			files[i].Path,
			cli.Truncate(r.Company, 28),
			r.Date.String(),
			cli.FormatAmount(r.Total()),
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "SCANNED",
		Headers:    []string{"File", "Company", "Date", "Total", "Status"},
		Rows:       rows,
		RightAlign: map[int]bool{3: true},
	}))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

// scanFailure turns an ingest error into a short table cell.
func scanFailure(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrAlreadyScanned):
		return "already scanned (use --force)"
	case errors.Is(err, extract.ErrUnsupportedFileType):
		return "unsupported file type"
	case errors.Is(err, extract.ErrNoText):
		return "pdf has no text layer"
	case errors.Is(err, extract.ErrCorruptFile):
		return "unreadable file"
	}
	return cli.Truncate(err.Error(), 60)
}
