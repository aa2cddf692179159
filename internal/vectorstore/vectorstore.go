package vectorstore

import (
	"context"
	"fmt"

	"rag-agent/internal/config"
	"rag-agent/internal/models"
	"rag-agent/internal/vectorstore/chromem"
	"rag-agent/internal/vectorstore/pgvector"
	"rag-agent/internal/vectorstore/qdrant"
)

// Store persists embedded chunks in a named collection and answers
// nearest-first similarity queries. Search returns at most limit results in
// the order the backend ranks them.
type Store interface {
	EnsureCollection(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error)
}

// New constructs the vector store backend selected by the config.
func New(cfg *config.VectorStoreConfig) (Store, error) {
	switch cfg.Type {
	case "qdrant":
		return qdrant.NewStore(&cfg.Qdrant, cfg.Collection), nil
	case "chromem":
		return chromem.NewStore(&cfg.Chromem, cfg.Collection)
	case "pgvector":
		return pgvector.NewStore(&cfg.Postgres, cfg.Collection)
	default:
		return nil, fmt.Errorf("unknown vector store type: %q", cfg.Type)
	}
}
