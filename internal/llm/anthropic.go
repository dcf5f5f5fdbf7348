package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const providerAnthropic = "anthropic"

// anthropicClient implements LLMClient on the Anthropic Messages API.
type anthropicClient struct {
	cfg      AnthropicConfig
	client   anthropic.Client
	observer Observer
}

// NewAnthropicClient creates an LLMClient backed by anthropic-sdk-go.
func NewAnthropicClient(cfg AnthropicConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicClient{
		cfg:      cfg,
		client:   anthropic.NewClient(opts...),
		observer: observer,
	}
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	maxTokens := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	var text string
	if err == nil {
		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		text = b.String()
		if strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
	} else {
		err = classifySDKError(ctx, err)
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Provider:  providerAnthropic,
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{
		Provider:  providerAnthropic,
		Text:      text,
		Model:     string(msg.Model),
		LatencyMs: latency,
	}, nil
}

// Available reports whether an API key is configured. No request is made.
func (c *anthropicClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
