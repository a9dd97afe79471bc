package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tri-bd/bdscan/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

func (g *Gemini) Name() string { return "gemini" }

// ExtractText extracts text from the given prompt and image using Gemini
func (g *Gemini) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set: %w", providers.ErrMissingCredentials)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}

	parts := []genai.Part{genai.Text(config.Prompt)}
	if len(config.Image) > 0 {
		parts = append(parts, genai.ImageData(imageFormat(config.ImageMediaType), config.Image))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			texts = append(texts, string(txt))
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return strings.Join(texts, ""), nil
}

// imageFormat turns "image/png" into the "png" form genai.ImageData expects.
func imageFormat(mediaType string) string {
	if f := strings.TrimPrefix(mediaType, "image/"); f != "" && f != mediaType {
		return f
	}
	return "png"
}
