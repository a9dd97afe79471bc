package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tri-bd/bdscan/internal/providers"
)

const (
	defaultURL = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Anthropic is a provider for the Anthropic Messages API
type Anthropic struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

// New returns a new Anthropic provider
func New(apiKey string) *Anthropic {
	return &Anthropic{
		APIKey:     apiKey,
		URL:        defaultURL,
		HTTPClient: &http.Client{},
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

// ExtractText sends the prompt and optional image and returns the concatenated text blocks
func (a *Anthropic) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if a.APIKey == "" {
		return "", fmt.Errorf("CLAUDE_API_KEY not set: %w", providers.ErrMissingCredentials)
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": config.Prompt,
		},
	}
	if len(config.Image) > 0 {
		mediaType := config.ImageMediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		content = append(content, map[string]interface{}{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": mediaType,
				"data":       base64.StdEncoding.EncodeToString(config.Image),
			},
		})
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":      config.Model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature": config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.URL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content returned from Anthropic")
	}

	return strings.Join(parts, "\n"), nil
}
