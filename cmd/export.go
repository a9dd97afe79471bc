package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tri-bd/bdscan/internal/config"
	"github.com/tri-bd/bdscan/internal/inventory"
)

func newExportCmd() *cobra.Command {
	var inventoryPath string

	cmd := &cobra.Command{
		Use:   "export <output>",
		Short: "Export the inventory to xlsx, parquet or yaml",
		Long: fmt.Sprintf(`Writes the inventory to another format, chosen by the output file extension.

Supported formats: %s.`, strings.Join(inventory.Formats, ", ")),
		Example: `  bdscan export inventaire.xlsx
  bdscan export --inventory other.csv inventory.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inventoryPath == "" {
				cfg := config.Load()
				inventoryPath = cfg.InventoryPath
			}

			store, err := inventory.Load(inventoryPath)
			if err != nil {
				return err
			}
			if err := inventory.Export(args[0], store.All()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", store.Len(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "Inventory CSV path (overrides INVENTORY_PATH)")

	return cmd
}
