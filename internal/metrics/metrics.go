// Package metrics holds the Prometheus collectors of a scan run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry collects every metric of this package. It is served by the serve
// command and written to a textfile after a scan.
var Registry = prometheus.NewRegistry()

var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bdscan",
			Name:      "documents_total",
			Help:      "Documents handled, by outcome",
		},
		[]string{"outcome"}, // analyzed, revalidated, exhausted, error
	)

	VisionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bdscan",
			Name:      "vision_requests_total",
			Help:      "Vision model calls, by provider and status",
		},
		[]string{"provider", "status"}, // parsed, scraped, error
	)

	VisionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bdscan",
			Name:      "vision_request_duration_seconds",
			Help:      "Vision model call duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bdscan",
			Name:      "search_requests_total",
			Help:      "Search provider calls, by provider and status",
		},
		[]string{"provider", "status"}, // hit, empty, error
	)

	ValidationConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bdscan",
			Name:      "validation_confidence",
			Help:      "Confidence computed by web cross-validation",
			Buckets:   []float64{0, 20, 40, 60, 80, 100},
		},
	)
)

func init() {
	Registry.MustRegister(
		DocumentsTotal,
		VisionRequestsTotal,
		VisionRequestDuration,
		SearchRequestsTotal,
		ValidationConfidence,
	)
}

// WriteTextfile writes the current metric values in the text exposition format,
// for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
