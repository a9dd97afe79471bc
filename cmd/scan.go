package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tri-bd/bdscan/internal/config"
	"github.com/tri-bd/bdscan/internal/discovery"
	"github.com/tri-bd/bdscan/internal/fusion"
	"github.com/tri-bd/bdscan/internal/inventory"
	"github.com/tri-bd/bdscan/internal/metrics"
	"github.com/tri-bd/bdscan/internal/report"
)

func newScanCmd() *cobra.Command {
	var (
		sourceDir     string
		inventoryPath string
		noValidation  bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Resolve metadata for every PDF under the source directory",
		Long: `Scans SOURCE_DIR recursively for PDF files and resolves title and author
for each one, updating the inventory in place.

Resolved records are only re-validated. Unresolved records are sent to the
vision model one page per run, in the order 2, 1, 3; after page 3 the
document is skipped until its page marker is cleared in the inventory.

Per-document failures are logged and counted; the command only fails when
the source directory is missing.`,
		Example: `  # Scan the directory configured in .env
  bdscan scan

  # Scan another directory without web validation
  bdscan scan --source ~/BD --no-validation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if sourceDir != "" {
				cfg.SourceDir = sourceDir
			}
			if inventoryPath != "" {
				cfg.InventoryPath = inventoryPath
			}
			if noValidation {
				cfg.EnableWebValidation = false
			}

			paths, err := discovery.Find(cfg.SourceDir)
			if err != nil {
				return err
			}

			persist := true
			store, err := inventory.Load(cfg.InventoryPath)
			if err != nil {
				slog.Error("Failed to load inventory, starting empty", "path", cfg.InventoryPath, "err", err)
				store = inventory.New(cfg.InventoryPath)
				if backup, err := inventory.Backup(cfg.InventoryPath); err != nil {
					slog.Error("Inventory left untouched, results will not be saved", "err", err)
					persist = false
				} else {
					slog.Warn("Unreadable inventory moved aside", "backup", backup)
				}
			}

			engine := fusion.New(nil, nil)
			if a := newAnalyzer(cfg); a != nil {
				engine.Analyzer = a
			}
			if cfg.EnableWebValidation {
				engine.Validator = newValidator(cfg)
			} else {
				slog.Info("Web validation disabled")
			}

			started := time.Now()
			res := engine.Run(cmd.Context(), paths, store)
			finished := time.Now()

			if persist {
				if err := store.Save(); err != nil {
					slog.Error("Failed to save inventory", "path", cfg.InventoryPath, "err", err)
				}
			}
			if cfg.MetricsTextfile != "" {
				if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
					slog.Error("Failed to write metrics", "path", cfg.MetricsTextfile, "err", err)
				}
			}
			if cfg.ReportDir != "" {
				rep := report.New(report.RunConfig{
					SourceDir:      cfg.SourceDir,
					Inventory:      cfg.InventoryPath,
					VisionProvider: cfg.VisionProvider,
					VisionModel:    cfg.VisionModel,
					WebValidation:  cfg.EnableWebValidation,
				}, started, finished, res)
				if path, err := rep.Save(cfg.ReportDir); err != nil {
					slog.Error("Failed to write run report", "dir", cfg.ReportDir, "err", err)
				} else {
					slog.Info("Run report saved", "path", path)
				}
			}

			printSummary(cmd.OutOrStdout(), res, finished.Sub(started))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", "", "Directory to scan (overrides SOURCE_DIR)")
	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "Inventory CSV path (overrides INVENTORY_PATH)")
	cmd.Flags().BoolVar(&noValidation, "no-validation", false, "Disable web cross-validation")

	return cmd
}

func printSummary(w io.Writer, res fusion.RunResult, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scan summary")
	fmt.Fprintf(w, "  Documents found:     %d\n", res.Scanned)
	fmt.Fprintf(w, "  Processed:           %d\n", res.Processed)
	fmt.Fprintf(w, "  Updated:             %d\n", res.Changed)
	fmt.Fprintf(w, "  Skipped (exhausted): %d\n", res.Skipped)
	fmt.Fprintf(w, "  Errors:              %d\n", res.Errors)
	fmt.Fprintf(w, "  Distinct authors:    %d\n", len(res.Authors))
	if len(res.Authors) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(res.Authors, ", "))
	}
	if res.Cancelled {
		fmt.Fprintln(w, "  Run interrupted before every document was handled")
	}
	fmt.Fprintf(w, "  Elapsed:             %s\n", elapsed.Round(time.Second))
}
