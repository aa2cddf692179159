package rag

import (
	"context"
	"fmt"
	"strings"

	"rag-agent/internal/embedding"
	"rag-agent/internal/llm"
	"rag-agent/internal/models"
	"rag-agent/internal/vectorstore"

	"github.com/rs/zerolog/log"
)

const promptTemplate = `Answer the following question based only on the context provided.
If you don't know, say you don't know.

Question: %s

Context:
%s

Answer:
`

// Service runs the retrieve -> prompt -> complete pipeline. All collaborator
// handles are injected once and safe for concurrent requests.
type Service struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	llm      llm.Client
	topK     int
}

func NewService(embedder embedding.Embedder, store vectorstore.Store, llmClient llm.Client, topK int) *Service {
	return &Service{embedder: embedder, store: store, llm: llmClient, topK: topK}
}

// Retrieve embeds the query and returns up to topK stored chunks,
// nearest-first in the store's order. No filtering or score thresholds.
func (s *Service) Retrieve(ctx context.Context, query string) ([]models.SearchResult, error) {
	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	results, err := s.store.Search(ctx, vec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("searching vector store: %w", err)
	}
	return results, nil
}

// BuildPrompt joins the retrieved chunk texts with blank lines into a
// context block and interpolates it with the question. Chunk order is
// preserved as returned by the retriever.
func BuildPrompt(question string, results []models.SearchResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}
	return fmt.Sprintf(promptTemplate, question, strings.Join(texts, "\n\n"))
}

// Ask answers a question from the stored knowledge base. Either the full
// pipeline succeeds and a complete answer is returned, or it fails with no
// partial result.
func (s *Service) Ask(ctx context.Context, question string) (*models.Answer, error) {
	results, err := s.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(question, results)
	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating completion: %w", err)
	}

	contextUsed := make([]string, len(results))
	for i, r := range results {
		contextUsed[i] = r.Content
	}

	log.Info().Str("question", question).Int("context_chunks", len(results)).Msg("Answered question")

	return &models.Answer{
		Question:    question,
		Answer:      answer,
		ContextUsed: contextUsed,
	}, nil
}
