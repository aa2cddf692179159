package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rag-agent/internal/config"
)

// Client produces a text completion for a prompt. Implementations normalize
// whatever shape their backend returns into a plain string.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when a backend answers without any choices.
var ErrEmptyCompletion = errors.New("llm returned no completion")

// New constructs the completion client selected by the config.
func New(cfg *config.ModelConfig) (Client, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}

// Reasoning models wrap their scratchpad in <think> tags; callers only want
// the final answer.
var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

func normalizeCompletion(s string) string {
	return strings.TrimSpace(thinkTagRe.ReplaceAllString(s, ""))
}
