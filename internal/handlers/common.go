// Package handlers serves a read-only JSON view of the inventory.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tri-bd/bdscan/internal/models"
)

// Inventory is the record source behind the handlers.
type Inventory interface {
	All() []models.DocumentRecord
	Get(filename string) (models.DocumentRecord, bool)
	Authors() []string
}

// Loader returns the current inventory. It is called once per request so that
// the view follows the file as scans rewrite it.
type Loader func() (Inventory, error)

type Handler struct {
	load Loader
}

func New(load Loader) *Handler {
	return &Handler{load: load}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) inventoryOrError(w http.ResponseWriter) (Inventory, bool) {
	inv, err := h.load()
	if err != nil {
		h.writeError(w, "Unable to load inventory: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return inv, true
}
