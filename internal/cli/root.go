package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tripload",
	Short: "Chunked NYC taxi trip data loader for PostgreSQL",
	Long: `tripload downloads NYC yellow taxi trip data as CSV (plain or gzip),
reads it in fixed-size chunks, and loads each chunk into PostgreSQL as
one atomic append. Memory stays bounded by the chunk size regardless of
how large the source file is.

Loading replaces the destination table: the first chunk drops and
recreates it, every following chunk appends. A failed chunk stops the
load at that boundary — earlier chunks stay committed.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied table replacement approval
  13 - Schema violation (a cell could not be coerced)
  14 - Source unavailable (download or open failed)
  15 - Store failure (DDL or append failed)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for tripload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
