package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tri-bd/bdscan/internal/models"
)

// Document statuses accepted by the status filter.
const (
	StatusResolved   = "resolved"
	StatusUnresolved = "unresolved"
	StatusExhausted  = "exhausted"
)

func status(r models.DocumentRecord) string {
	switch {
	case r.Resolved():
		return StatusResolved
	case r.Exhausted():
		return StatusExhausted
	default:
		return StatusUnresolved
	}
}

// HandleDocuments lists records, optionally filtered by ?author= (case-insensitive
// substring) and ?status=resolved|unresolved|exhausted.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.inventoryOrError(w)
	if !ok {
		return
	}

	author := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("author")))
	want := r.URL.Query().Get("status")
	switch want {
	case "", StatusResolved, StatusUnresolved, StatusExhausted:
	default:
		h.writeError(w, "Invalid status: "+want, http.StatusBadRequest)
		return
	}

	docs := make([]models.DocumentRecord, 0)
	for _, rec := range inv.All() {
		if author != "" && !strings.Contains(strings.ToLower(rec.Author), author) {
			continue
		}
		if want != "" && status(rec) != want {
			continue
		}
		docs = append(docs, rec)
	}
	h.writeJSON(w, docs)
}

func (h *Handler) HandleDocumentDetail(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.inventoryOrError(w)
	if !ok {
		return
	}

	name := chi.URLParam(r, "filename")
	rec, exists := inv.Get(name)
	if !exists {
		h.writeError(w, "Document not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, rec)
}

func (h *Handler) HandleAuthors(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.inventoryOrError(w)
	if !ok {
		return
	}
	authors := inv.Authors()
	if authors == nil {
		authors = []string{}
	}
	h.writeJSON(w, authors)
}

// Summary counts the records by status.
type Summary struct {
	Total             int `json:"total"`
	Resolved          int `json:"resolved"`
	Unresolved        int `json:"unresolved"`
	Exhausted         int `json:"exhausted"`
	Authors           int `json:"authors"`
	AverageConfidence int `json:"average_confidence"`
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.inventoryOrError(w)
	if !ok {
		return
	}

	var s Summary
	scored, sum := 0, 0
	for _, rec := range inv.All() {
		s.Total++
		switch status(rec) {
		case StatusResolved:
			s.Resolved++
		case StatusExhausted:
			s.Exhausted++
		default:
			s.Unresolved++
		}
		if v, ok := rec.Confidence.Value(); ok {
			scored++
			sum += v
		}
	}
	if scored > 0 {
		s.AverageConfidence = (sum + scored/2) / scored
	}
	s.Authors = len(inv.Authors())
	h.writeJSON(w, s)
}
