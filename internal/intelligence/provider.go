// Package intelligence queries text-generation providers for
// jurisdiction-specific permit and code guidance.
package intelligence

import (
	"context"
	"fmt"

	"github.com/pelicanstate/constructhub/internal/llm"
)

// ResearchProvider turns a prompt into raw model text.
type ResearchProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a plain function into a ResearchProvider.
type ProviderFunc struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

func (p ProviderFunc) Name() string { return p.ID }

func (p ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return p.Fn(ctx, prompt)
}

type llmProvider struct {
	name   string
	client llm.LLMClient
}

// NewLLMProvider wraps an llm.LLMClient as a research provider. The prompt
// already embeds its instructions and is sent as the only user message.
func NewLLMProvider(name string, client llm.LLMClient) ResearchProvider {
	return &llmProvider{name: name, client: client}
}

func (p *llmProvider) Name() string { return p.name }

func (p *llmProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskResearch,
		UserPrompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%s research generation failed: %w", p.name, err)
	}
	return resp.Text, nil
}
