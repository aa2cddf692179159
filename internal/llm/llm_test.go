package llm

import (
	"testing"

	"rag-agent/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCompletion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The limit is $50,000.", "The limit is $50,000."},
		{"surrounding whitespace", "  an answer \n", "an answer"},
		{"think tag stripped", "<think>reasoning\nsteps</think>The limit is $50,000.", "The limit is $50,000."},
		{"think tag mid-text", "Sure. <think>hmm</think> The limit is $50,000.", "Sure.  The limit is $50,000."},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeCompletion(tc.in))
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(&config.ModelConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "")
	_, err := NewOpenAIClient(&config.ModelConfig{Provider: "openai", KeyEnv: "TEST_LLM_KEY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing API key")
}

func TestNewOpenAIClient_WithKey(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "sk-test")
	client, err := NewOpenAIClient(&config.ModelConfig{
		Provider: "openai",
		BaseURL:  "http://localhost:9999/v1",
		Model:    "gpt-4o-mini",
		KeyEnv:   "TEST_LLM_KEY",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
