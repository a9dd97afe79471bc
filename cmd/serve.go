package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tri-bd/bdscan/internal/config"
	"github.com/tri-bd/bdscan/internal/handlers"
	"github.com/tri-bd/bdscan/internal/inventory"
)

func newServeCmd() *cobra.Command {
	var (
		port          string
		inventoryPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory as a read-only JSON API",
		Long: `Starts an HTTP server exposing the inventory:

  GET /api/documents             list records (?author=, ?status=resolved|unresolved|exhausted)
  GET /api/documents/{filename}  one record
  GET /api/authors               distinct authors
  GET /api/summary               counts by status
  GET /metrics                   Prometheus metrics
  GET /healthcheck

The inventory file is re-read on every request, so a scan running alongside
is reflected as soon as it saves.`,
		Example: `  # Start server on default port 8888
  bdscan serve

  # Start server on custom port
  bdscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inventoryPath == "" {
				cfg := config.Load()
				inventoryPath = cfg.InventoryPath
			}

			handler := handlers.New(func() (handlers.Inventory, error) {
				return inventory.Load(inventoryPath)
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Inventory API available", "addr", addr, "url", "http://localhost"+addr, "inventory", inventoryPath)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "Inventory CSV path (overrides INVENTORY_PATH)")

	return cmd
}
