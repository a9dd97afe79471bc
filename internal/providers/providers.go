package providers

import (
	"context"
	"errors"
)

// ErrMissingCredentials is returned by providers that need an API key they were not given.
var ErrMissingCredentials = errors.New("missing provider credentials")

// Config represents one request to a vision-capable LLM provider
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Prompt      string
	// Image is the raw encoded image; providers base64 it as their API requires.
	Image          []byte
	ImageMediaType string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	ExtractText(ctx context.Context, config Config) (string, error)
}
