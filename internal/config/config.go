// Package config loads ConstructHub settings from defaults, an optional YAML
// file and CONSTRUCTHUB_ environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "CONSTRUCTHUB"

// Provider names accepted in research.providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Config represents the complete ConstructHub configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Research  ResearchConfig  `mapstructure:"research"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
}

type DatabaseConfig struct {
	// Path is the SQLite file; ":memory:" keeps everything in process.
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// LLMCalls logs one line per provider call
	LLMCalls bool `mapstructure:"llm_calls"`
}

// ResearchConfig controls the external research chain
type ResearchConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Providers are tried in order until one returns usable findings
	Providers     []string      `mapstructure:"providers"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CacheCapacity int           `mapstructure:"cache_capacity"`
}

type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	BaseURL   string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	BaseURL   string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max_retries"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(DataDir(), "constructhub.db"),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Research: ResearchConfig{
			Enabled:       true,
			Providers:     []string{ProviderAnthropic, ProviderOpenAI, ProviderOllama},
			Timeout:       12 * time.Second,
			CacheTTL:      time.Hour,
			CacheCapacity: 256,
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-5",
			MaxTokens: 1536,
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 1536,
		},
		Ollama: OllamaConfig{
			Endpoint:   "http://localhost:11434",
			Model:      "llama3.2",
			MaxRetries: 1,
			TimeoutMs:  12000,
		},
	}
}

// SetDefaults registers every key on v and binds environment overrides.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("database.path", defaults.Database.Path)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.llm_calls", defaults.Logging.LLMCalls)

	v.SetDefault("research.enabled", defaults.Research.Enabled)
	v.SetDefault("research.providers", defaults.Research.Providers)
	v.SetDefault("research.timeout", defaults.Research.Timeout)
	v.SetDefault("research.cache_ttl", defaults.Research.CacheTTL)
	v.SetDefault("research.cache_capacity", defaults.Research.CacheCapacity)

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", defaults.Anthropic.Model)
	v.SetDefault("anthropic.max_tokens", defaults.Anthropic.MaxTokens)
	v.SetDefault("anthropic.base_url", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", defaults.OpenAI.Model)
	v.SetDefault("openai.max_tokens", defaults.OpenAI.MaxTokens)
	v.SetDefault("openai.base_url", "")

	v.SetDefault("ollama.endpoint", defaults.Ollama.Endpoint)
	v.SetDefault("ollama.model", defaults.Ollama.Model)
	v.SetDefault("ollama.max_retries", defaults.Ollama.MaxRetries)
	v.SetDefault("ollama.timeout_ms", defaults.Ollama.TimeoutMs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The vendors' own variable names work as fallbacks.
	_ = v.BindEnv("anthropic.api_key", EnvPrefix+"_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// ReadFile merges the YAML file at path into v. A missing default config
// file is not an error; an explicit path must exist.
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = ConfigFile()
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	for i, p := range cfg.Research.Providers {
		cfg.Research.Providers[i] = strings.ToLower(strings.TrimSpace(p))
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "constructhub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".constructhub"
	}
	return filepath.Join(home, ".config", "constructhub")
}

// ConfigFile returns the path to the default config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory holding the default database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "constructhub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".constructhub"
	}
	return filepath.Join(home, ".local", "share", "constructhub")
}

// ValidProviders returns the accepted research provider names
func ValidProviders() []string {
	return []string{ProviderAnthropic, ProviderOpenAI, ProviderOllama}
}
