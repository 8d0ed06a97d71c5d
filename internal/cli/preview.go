package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tripload/internal/config"
	"github.com/vvka-141/tripload/internal/dataset"
	"github.com/vvka-141/tripload/internal/source"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first rows of a source file without loading anything",
	Long: `Preview downloads (or opens) the source, coerces the first rows exactly
as the load command would, and prints them to stdout. No database
connection is made and nothing is written.

Use this to sanity-check a month's file, or to see how empty cells and
timestamps come out after type coercion, before running a real load.

Examples:
  # Preview the default dataset (January 2021)
  tripload preview

  # Preview ten rows of a local file
  tripload preview --source ./yellow_tripdata_2021-01.csv.gz --rows 10`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

type previewFlagValues struct {
	source      string
	year, month int
	rows        int
	timeout     time.Duration
}

var previewFlags previewFlagValues

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVar(&previewFlags.year, "year", 0,
		"Dataset year (default: tripload.yaml or 2021)")
	previewCmd.Flags().IntVar(&previewFlags.month, "month", 0,
		"Dataset month 1-12 (default: tripload.yaml or 1)")
	previewCmd.Flags().StringVar(&previewFlags.source, "source", "",
		"Explicit source: an http(s) URL or local file path to a CSV,\n"+
			"optionally gzip-compressed. Overrides --year/--month.")
	previewCmd.Flags().IntVar(&previewFlags.rows, "rows", 10,
		"Number of rows to preview")
	previewCmd.Flags().DurationVar(&previewFlags.timeout, "timeout", 2*time.Minute,
		"Download timeout")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewFlags.rows < 1 {
		return fmt.Errorf("--rows must be positive, got %d", previewFlags.rows)
	}

	projectCfg, err := config.Load(".")
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	src, err := resolveSource(previewFlags.source, previewFlags.year, previewFlags.month, projectCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), previewFlags.timeout)
	defer cancel()

	sch := dataset.YellowTaxiSchema()
	reader, err := source.Open(ctx, src, sch, previewFlags.rows)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck

	batch, err := reader.Next(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, "Source contains no data rows.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Source: %s\n\n", src)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, col := range sch {
		fmt.Fprintf(w, "%s\t", col.Name)
	}
	fmt.Fprintln(w)

	for _, row := range batch.Rows {
		for _, cell := range row {
			fmt.Fprintf(w, "%s\t", formatCell(cell))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// formatCell renders a coerced value for display. Missing values show
// as NULL to distinguish them from empty strings and zeros.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
