package cmd

import (
	"log/slog"

	"github.com/tri-bd/bdscan/internal/anthropic"
	"github.com/tri-bd/bdscan/internal/config"
	"github.com/tri-bd/bdscan/internal/gemini"
	"github.com/tri-bd/bdscan/internal/ollama"
	"github.com/tri-bd/bdscan/internal/openai"
	"github.com/tri-bd/bdscan/internal/providers"
	"github.com/tri-bd/bdscan/internal/render"
	"github.com/tri-bd/bdscan/internal/vision"
	"github.com/tri-bd/bdscan/internal/websearch"
)

// newVisionProvider returns the configured provider, or nil when its
// credential is missing so that visual analysis is skipped.
func newVisionProvider(cfg *config.Config) providers.Provider {
	switch cfg.VisionProvider {
	case "anthropic":
		if cfg.ClaudeAPIKey != "" {
			return anthropic.New(cfg.ClaudeAPIKey)
		}
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			return openai.New(cfg.OpenAIAPIKey, "")
		}
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return gemini.New(cfg.GeminiAPIKey)
		}
	case "ollama":
		if cfg.OllamaURL != "" {
			return ollama.New(cfg.OllamaURL)
		}
	}
	slog.Warn("Vision provider not configured, visual analysis disabled", "provider", cfg.VisionProvider)
	return nil
}

func newAnalyzer(cfg *config.Config) *vision.Analyzer {
	p := newVisionProvider(cfg)
	if p == nil {
		return nil
	}
	slog.Info("Vision analysis enabled", "provider", p.Name(), "model", cfg.VisionModel)
	return vision.NewAnalyzer(p, render.New(cfg.RenderCommand, cfg.RenderDPI), cfg.VisionModel, cfg.VisionMaxTokens)
}

func newValidator(cfg *config.Config) *websearch.Validator {
	return websearch.NewValidator(websearch.Options{
		GoogleAPIKey: cfg.GoogleAPIKey,
		GoogleCSEID:  cfg.GoogleCSEID,
		SerpAPIKey:   cfg.SerpAPIKey,
	})
}
