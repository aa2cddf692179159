package llm

import (
	"context"
	"fmt"

	"rag-agent/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaClient completes prompts against a local ollama server.
type OllamaClient struct {
	llm   *ollama.LLM
	model string
}

func NewOllamaClient(cfg *config.ModelConfig) (*OllamaClient, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama client: %w", err)
	}
	return &OllamaClient{llm: llm, model: cfg.Model}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return normalizeCompletion(res.Choices[0].Content), nil
}
