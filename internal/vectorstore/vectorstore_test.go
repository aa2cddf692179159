package vectorstore

import (
	"testing"

	"rag-agent/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsBackend(t *testing.T) {
	qdrantStore, err := New(&config.VectorStoreConfig{
		Type:       "qdrant",
		Collection: "knowledge_base",
		Qdrant:     config.QdrantConfig{URL: "http://localhost:6333"},
	})
	require.NoError(t, err)
	assert.NotNil(t, qdrantStore)

	chromemStore, err := New(&config.VectorStoreConfig{
		Type:       "chromem",
		Collection: "knowledge_base",
		Chromem:    config.ChromemConfig{Path: t.TempDir()},
	})
	require.NoError(t, err)
	assert.NotNil(t, chromemStore)
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(&config.VectorStoreConfig{Type: "pinecone"})
	assert.Error(t, err)
}

func TestNew_PgvectorRequiresDSN(t *testing.T) {
	_, err := New(&config.VectorStoreConfig{Type: "pgvector"})
	assert.Error(t, err)
}
