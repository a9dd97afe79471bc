package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tri-bd/bdscan/internal/config"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bdscan",
		Short: "Comic album inventory from scanned PDFs",
		Long: `bdscan builds a confidence-scored inventory of scanned comic albums (bandes dessinées).

Each PDF goes through a cascade of strategies: embedded metadata, file name
heuristics, a vision model reading a rendered page, and web search
cross-validation. Results are kept in a CSV inventory that can be re-run
incrementally.

Configuration is read from the environment and an optional .env file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := config.ParseLevel(os.Getenv("LOG_LEVEL"))
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
