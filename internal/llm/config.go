package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskResearch asks for jurisdiction-specific permit and code guidance.
	TaskResearch TaskType = "research"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig configures the Ollama client.
type LLMConfig struct {
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an Ollama config for a local server.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  12000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskResearch: {Temperature: 0.2, MaxTokens: 1536},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// AnthropicConfig configures the Anthropic Messages client.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	MaxRetries int
}

// DefaultAnthropicConfig returns the Anthropic defaults without an API key.
func DefaultAnthropicConfig() AnthropicConfig {
	return AnthropicConfig{
		Model:      "claude-sonnet-4-5",
		MaxTokens:  1536,
		MaxRetries: 1,
	}
}

// OpenAIConfig configures the OpenAI Responses client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	MaxRetries int
}

// DefaultOpenAIConfig returns the OpenAI defaults without an API key.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:      "gpt-4o-mini",
		MaxTokens:  1536,
		MaxRetries: 1,
	}
}
