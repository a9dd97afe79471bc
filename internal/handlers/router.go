package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tri-bd/bdscan/internal/metrics"
)

// Router mounts the API, the health check and the metrics endpoint.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/api/documents", h.HandleDocuments)
	r.Get("/api/documents/{filename}", h.HandleDocumentDetail)
	r.Get("/api/authors", h.HandleAuthors)
	r.Get("/api/summary", h.HandleSummary)
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}
