package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the run settings, read from the environment.
type Config struct {
	SourceDir     string
	InventoryPath string

	EnableWebValidation bool
	GoogleAPIKey        string
	GoogleCSEID         string
	SerpAPIKey          string

	VisionProvider  string
	VisionModel     string
	VisionMaxTokens int
	ClaudeAPIKey    string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	OllamaURL       string

	RenderCommand string
	RenderDPI     int

	MetricsTextfile string
	ReportDir       string
	LogLevel        string
}

// Load reads the configuration from environment variables.
// A .env file is expected to have been loaded by the caller. Invalid values
// are logged and replaced by their defaults; an unknown vision provider is
// kept so that visual analysis ends up disabled.
func Load() *Config {
	cfg := &Config{
		SourceDir:           os.Getenv("SOURCE_DIR"),
		InventoryPath:       getenv("INVENTORY_PATH", "inventaire_bd.csv"),
		EnableWebValidation: os.Getenv("ENABLE_WEB_VALIDATION") != "false",
		GoogleAPIKey:        os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:         os.Getenv("GOOGLE_CSE_ID"),
		SerpAPIKey:          os.Getenv("SERPAPI_KEY"),
		VisionProvider:      strings.ToLower(getenv("VISION_PROVIDER", "anthropic")),
		VisionModel:         os.Getenv("VISION_MODEL"),
		ClaudeAPIKey:        os.Getenv("CLAUDE_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		OllamaURL:           os.Getenv("OLLAMA_URL"),
		RenderCommand:       getenv("RENDER_COMMAND", "pdftoppm"),
		MetricsTextfile:     os.Getenv("METRICS_TEXTFILE"),
		ReportDir:           os.Getenv("REPORT_DIR"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = os.Getenv("OLLAMA_HOST")
	}

	cfg.VisionMaxTokens = getenvInt("VISION_MAX_TOKENS", 1000)
	cfg.RenderDPI = getenvInt("RENDER_DPI", 150)

	switch cfg.VisionProvider {
	case "anthropic", "openai", "gemini", "ollama":
	default:
		slog.Warn("Unsupported vision provider", "provider", cfg.VisionProvider)
	}

	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultModel(cfg.VisionProvider)
	}

	return cfg
}

// DefaultModel returns the model used when VISION_MODEL is not set.
func DefaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-3-5-sonnet-20241022"
	case "openai":
		return "gpt-4o"
	case "gemini":
		return "gemini-1.5-flash"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("Invalid setting, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}
