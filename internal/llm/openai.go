package llm

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const providerOpenAI = "openai"

// openAIClient implements LLMClient on the OpenAI Responses API.
type openAIClient struct {
	cfg      OpenAIConfig
	client   openai.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient backed by openai-go.
func NewOpenAIClient(cfg OpenAIConfig, observer Observer) LLMClient {
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
	return &openAIClient{
		cfg:      cfg,
		client:   openai.NewClient(opts...),
		observer: observer,
	}
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	maxTokens := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	input := make(responses.ResponseInputParam, 0, 2)
	if req.SystemPrompt != "" {
		input = append(input, responses.ResponseInputItemParamOfMessage(req.SystemPrompt, responses.EasyInputMessageRoleSystem))
	}
	input = append(input, responses.ResponseInputItemParamOfMessage(req.UserPrompt, responses.EasyInputMessageRoleUser))

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.cfg.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		MaxOutputTokens: openai.Int(int64(maxTokens)),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	result, err := c.client.Responses.New(ctx, params)
	var text string
	if err == nil {
		text = result.OutputText()
		if strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
	} else {
		err = classifySDKError(ctx, err)
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Provider:  providerOpenAI,
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
		Provider:  providerOpenAI,
		Text:      text,
		Model:     string(result.Model),
		LatencyMs: latency,
	}, nil
}

// Available reports whether an API key is configured. No request is made.
func (c *openAIClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
