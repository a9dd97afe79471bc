// Package vision extracts bibliographic fields from a rendered page with a
// vision-capable LLM.
package vision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tri-bd/bdscan/internal/metrics"
	"github.com/tri-bd/bdscan/internal/models"
	"github.com/tri-bd/bdscan/internal/providers"
	"github.com/tri-bd/bdscan/internal/render"
)

// ErrUnavailable is returned when no model can be called: no provider is
// configured, the credential is missing or the API call failed.
var ErrUnavailable = errors.New("vision analysis unavailable")

// Renderer produces a temporary image of one page.
type Renderer interface {
	Render(ctx context.Context, path string, page int) (string, error)
}

// Analyzer renders a page, sends it to the provider and parses the reply
type Analyzer struct {
	Provider    providers.Provider
	Renderer    Renderer
	Model       string
	MaxTokens   int
	Temperature float64
	// Remove deletes the rendered image; it defaults to render.Remove.
	Remove func(string) error
}

// NewAnalyzer creates an analyzer. A nil provider makes every call return ErrUnavailable.
func NewAnalyzer(p providers.Provider, r Renderer, model string, maxTokens int) *Analyzer {
	return &Analyzer{
		Provider:    p,
		Renderer:    r,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: 0.1,
		Remove:      render.Remove,
	}
}

// Available reports whether a provider is configured.
func (a *Analyzer) Available() bool {
	return a != nil && a.Provider != nil && a.Renderer != nil
}

// Analyze extracts fields from page of the document at path. The rendered image is
// removed on every return path.
func (a *Analyzer) Analyze(ctx context.Context, path string, page models.Page) (models.ExtractionResult, error) {
	if !a.Available() {
		return models.ExtractionResult{}, ErrUnavailable
	}
	name := filepath.Base(path)

	image, err := a.Renderer.Render(ctx, path, int(page))
	if err != nil {
		return models.ExtractionResult{}, err
	}
	defer a.cleanup(image)

	data, err := os.ReadFile(image)
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("%w: failed to read rendered page: %v", render.ErrRenderFailed, err)
	}

	slog.Info("Analyzing page with vision model", "file", name, "page", int(page), "provider", a.Provider.Name(), "model", a.Model)

	start := time.Now()
	reply, err := a.Provider.ExtractText(ctx, providers.Config{
		Model:          a.Model,
		Temperature:    a.Temperature,
		MaxTokens:      a.MaxTokens,
		Prompt:         Prompt,
		Image:          data,
		ImageMediaType: "image/png",
	})
	metrics.VisionRequestDuration.WithLabelValues(a.Provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.VisionRequestsTotal.WithLabelValues(a.Provider.Name(), "error").Inc()
		return models.ExtractionResult{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, a.Provider.Name(), err)
	}

	res := Parse(reply)
	status := "parsed"
	if res.Source == SourceScraped {
		status = "scraped"
	}
	metrics.VisionRequestsTotal.WithLabelValues(a.Provider.Name(), status).Inc()

	slog.Debug("Vision reply parsed", "file", name, "source", res.Source, "title", res.Title, "author", res.Author,
		"confidence", res.Confidence.String())
	return res, nil
}

func (a *Analyzer) cleanup(image string) {
	remove := a.Remove
	if remove == nil {
		remove = render.Remove
	}
	if err := remove(image); err != nil {
		slog.Warn("Failed to remove rendered page", "image", image, "err", err)
	}
}
