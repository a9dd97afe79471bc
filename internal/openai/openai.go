package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tri-bd/bdscan/internal/providers"
)

// OpenAI is a provider for OpenAI-compatible chat completion APIs
type OpenAI struct {
	apiKey string
	client *openai.Client
}

// New returns a new OpenAI provider. An empty baseURL uses the public API.
func New(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAI) Name() string { return "openai" }

// ExtractText sends the prompt and optional image as one user message
func (o *OpenAI) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set: %w", providers.ErrMissingCredentials)
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: config.Prompt,
		},
	}
	if len(config.Image) > 0 {
		mediaType := config.ImageMediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(config.Image),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		Temperature: float32(config.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
