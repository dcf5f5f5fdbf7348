package config

import (
	"log/slog"
	"strings"

	"github.com/pelicanstate/constructhub/internal/llm"
)

// LogLevel maps logging.level to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// OllamaClientConfig returns the llm settings for the Ollama provider. The
// research task inherits the configured timeout.
func (c *Config) OllamaClientConfig() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Endpoint = c.Ollama.Endpoint
	cfg.Model = c.Ollama.Model
	cfg.MaxRetries = c.Ollama.MaxRetries
	cfg.TimeoutMs = c.Ollama.TimeoutMs
	return cfg
}

func (c *Config) AnthropicClientConfig() llm.AnthropicConfig {
	cfg := llm.DefaultAnthropicConfig()
	cfg.APIKey = c.Anthropic.APIKey
	cfg.Model = c.Anthropic.Model
	cfg.MaxTokens = c.Anthropic.MaxTokens
	cfg.BaseURL = c.Anthropic.BaseURL
	return cfg
}

func (c *Config) OpenAIClientConfig() llm.OpenAIConfig {
	cfg := llm.DefaultOpenAIConfig()
	cfg.APIKey = c.OpenAI.APIKey
	cfg.Model = c.OpenAI.Model
	cfg.MaxTokens = c.OpenAI.MaxTokens
	cfg.BaseURL = c.OpenAI.BaseURL
	return cfg
}
