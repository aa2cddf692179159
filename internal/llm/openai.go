package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rag-agent/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient completes prompts against an OpenAI-compatible chat endpoint
// (OpenAI itself, OpenRouter, or any server speaking the same protocol).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(cfg *config.ModelConfig) (*OpenAIClient, error) {
	key := os.Getenv(cfg.KeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.KeyEnv)
	}
	clientCfg := openai.DefaultConfig(strings.TrimPrefix(key, "Bearer "))
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return normalizeCompletion(resp.Choices[0].Message.Content), nil
}
