package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rag-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	embedQueryFunc func(ctx context.Context, text string) ([]float32, error)
	queryCalls     int
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m.queryCalls++
	if m.embedQueryFunc != nil {
		return m.embedQueryFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type mockStore struct {
	searchFunc  func(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error)
	searchCalls int
}

func (m *mockStore) EnsureCollection(ctx context.Context, dimension int) error { return nil }

func (m *mockStore) Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	return nil
}

func (m *mockStore) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
	m.searchCalls++
	if m.searchFunc != nil {
		return m.searchFunc(ctx, vector, limit)
	}
	return nil, nil
}

type mockLLM struct {
	completeFunc func(ctx context.Context, prompt string) (string, error)
	calls        int
	lastPrompt   string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.completeFunc != nil {
		return m.completeFunc(ctx, prompt)
	}
	return "a completion", nil
}

func storedResults() []models.SearchResult {
	return []models.SearchResult{
		{Content: "The coverage limit is $50,000 per incident.", Score: 0.91},
		{Content: "Claims must be filed within 30 days.", Score: 0.77},
		{Content: "The deductible is $500.", Score: 0.63},
	}
}

func TestRetrieve_ReturnsStoreOrder(t *testing.T) {
	store := &mockStore{
		searchFunc: func(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
			assert.Equal(t, 3, limit)
			return storedResults(), nil
		},
	}
	svc := NewService(&mockEmbedder{}, store, &mockLLM{}, 3)

	results, err := svc.Retrieve(context.Background(), "What is the coverage limit?")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "The coverage limit is $50,000 per incident.", results[0].Content)
	assert.Equal(t, "The deductible is $500.", results[2].Content)
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	embedder := &mockEmbedder{
		embedQueryFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding backend down")
		},
	}
	store := &mockStore{}
	svc := NewService(embedder, store, &mockLLM{}, 3)

	_, err := svc.Retrieve(context.Background(), "anything")
	require.Error(t, err)
	assert.Zero(t, store.searchCalls, "store must not be queried when embedding fails")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is the coverage limit?", storedResults())

	assert.Contains(t, prompt, "Question: What is the coverage limit?")
	assert.Contains(t, prompt, "based only on the context provided")
	assert.Contains(t, prompt,
		"The coverage limit is $50,000 per incident.\n\nClaims must be filed within 30 days.\n\nThe deductible is $500.")
}

func TestBuildPrompt_EmptyContext(t *testing.T) {
	prompt := BuildPrompt("What is the coverage limit?", nil)

	assert.Contains(t, prompt, "Question: What is the coverage limit?")
	// The context block is present but empty; the instruction still tells the
	// model to admit it does not know.
	assert.Contains(t, prompt, "Context:\n\n")
	assert.Contains(t, prompt, "say you don't know")
}

func TestAsk_Success(t *testing.T) {
	store := &mockStore{
		searchFunc: func(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
			return storedResults(), nil
		},
	}
	llmMock := &mockLLM{
		completeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "The coverage limit is $50,000 per incident.", nil
		},
	}
	svc := NewService(&mockEmbedder{}, store, llmMock, 3)

	answer, err := svc.Ask(context.Background(), "What is the coverage limit?")
	require.NoError(t, err)
	assert.Equal(t, "What is the coverage limit?", answer.Question)
	assert.Contains(t, answer.Answer, "$50,000")
	require.Len(t, answer.ContextUsed, 3)
	assert.Equal(t, "The coverage limit is $50,000 per incident.", answer.ContextUsed[0])
	assert.Equal(t, 1, llmMock.calls)
	assert.True(t, strings.Contains(llmMock.lastPrompt, "$50,000"))
}

func TestAsk_EmptyStoreStillInvokesLLM(t *testing.T) {
	llmMock := &mockLLM{
		completeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "I don't know.", nil
		},
	}
	svc := NewService(&mockEmbedder{}, &mockStore{}, llmMock, 3)

	answer, err := svc.Ask(context.Background(), "What is the coverage limit?")
	require.NoError(t, err)
	assert.Equal(t, 1, llmMock.calls)
	assert.Empty(t, answer.ContextUsed)
	assert.Equal(t, "I don't know.", answer.Answer)
}

func TestAsk_LLMFailureIsAtomic(t *testing.T) {
	store := &mockStore{
		searchFunc: func(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
			return storedResults(), nil
		},
	}
	llmMock := &mockLLM{
		completeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	svc := NewService(&mockEmbedder{}, store, llmMock, 3)

	answer, err := svc.Ask(context.Background(), "What is the coverage limit?")
	require.Error(t, err)
	assert.Nil(t, answer, "no partial answer on collaborator failure")
}
