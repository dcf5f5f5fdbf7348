package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateDatabase()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateResearch()...)
	errs = append(errs, c.validateProviders()...)
	return errs
}

func (c *Config) validateDatabase() []ValidationError {
	if strings.TrimSpace(c.Database.Path) == "" {
		return []ValidationError{{Field: "database.path", Value: c.Database.Path, Message: "must not be empty"}}
	}
	return nil
}

func (c *Config) validateLogging() []ValidationError {
	level := strings.ToLower(c.Logging.Level)
	if !slices.Contains(ValidLogLevels(), level) {
		return []ValidationError{{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateResearch() []ValidationError {
	var errs []ValidationError
	r := c.Research

	seen := make(map[string]bool, len(r.Providers))
	for _, p := range r.Providers {
		if !slices.Contains(ValidProviders(), p) {
			errs = append(errs, ValidationError{
				Field:   "research.providers",
				Value:   p,
				Message: fmt.Sprintf("unknown provider, must be one of: %s", strings.Join(ValidProviders(), ", ")),
			})
			continue
		}
		if seen[p] {
			errs = append(errs, ValidationError{Field: "research.providers", Value: p, Message: "listed more than once"})
		}
		seen[p] = true
	}
	if r.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "research.timeout", Value: r.Timeout, Message: "must be positive"})
	}
	if r.CacheTTL <= 0 {
		errs = append(errs, ValidationError{Field: "research.cache_ttl", Value: r.CacheTTL, Message: "must be positive"})
	}
	if r.CacheCapacity <= 0 {
		errs = append(errs, ValidationError{Field: "research.cache_capacity", Value: r.CacheCapacity, Message: "must be positive"})
	}
	return errs
}

func (c *Config) validateProviders() []ValidationError {
	var errs []ValidationError
	if c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "anthropic.max_tokens", Value: c.Anthropic.MaxTokens, Message: "must be positive"})
	}
	if c.OpenAI.MaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "openai.max_tokens", Value: c.OpenAI.MaxTokens, Message: "must be positive"})
	}
	if c.Ollama.MaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "ollama.max_retries", Value: c.Ollama.MaxRetries, Message: "must not be negative"})
	}
	if c.Ollama.TimeoutMs <= 0 {
		errs = append(errs, ValidationError{Field: "ollama.timeout_ms", Value: c.Ollama.TimeoutMs, Message: "must be positive"})
	}
	return errs
}
