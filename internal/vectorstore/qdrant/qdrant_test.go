package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-agent/internal/config"
	"rag-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(&config.QdrantConfig{URL: srv.URL, TimeoutSecs: 5}, "knowledge_base")
}

func TestEnsureCollection(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, store.EnsureCollection(context.Background(), 384))
	assert.Equal(t, "PUT /collections/knowledge_base", gotPath)

	vectors := gotBody["vectors"].(map[string]any)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestEnsureCollection_InvalidDimension(t *testing.T) {
	store := NewStore(&config.QdrantConfig{URL: "http://localhost:6333"}, "knowledge_base")
	assert.Error(t, store.EnsureCollection(context.Background(), 0))
}

func TestUpsert(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/collections/knowledge_base/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	chunks := []models.Chunk{
		{Content: "The coverage limit is $50,000 per incident.", SourceFilename: "policy.pdf", PageNumber: 2, ChunkID: 7},
	}
	vectors := [][]float32{{0.1, 0.2}}
	require.NoError(t, store.Upsert(context.Background(), chunks, vectors))

	require.Len(t, gotBody.Points, 1)
	p := gotBody.Points[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []float32{0.1, 0.2}, p.Vector)
	assert.Equal(t, "The coverage limit is $50,000 per incident.", p.Payload["content"])
	assert.Equal(t, "policy.pdf", p.Payload["source"])
	assert.Equal(t, float64(2), p.Payload["page"])
	assert.Equal(t, float64(7), p.Payload["chunk_id"])
}

func TestUpsert_LengthMismatch(t *testing.T) {
	store := NewStore(&config.QdrantConfig{URL: "http://localhost:6333"}, "knowledge_base")
	err := store.Upsert(context.Background(), []models.Chunk{{Content: "a"}}, nil)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/knowledge_base/points/search", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(3), req["limit"])
		assert.Equal(t, true, req["with_payload"])

		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"score": 0.91, "payload": map[string]any{"content": "nearest chunk", "source": "policy.pdf", "page": 1.0}},
				{"score": 0.42, "payload": map[string]any{"content": "second chunk", "source": "policy.pdf", "page": 3.0}},
			},
		})
	})

	results, err := store.Search(context.Background(), []float32{0.5, 0.5}, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "nearest chunk", results[0].Content)
	assert.Equal(t, float32(0.91), results[0].Score)
	assert.Equal(t, 3, results[1].PageNumber)
}

func TestSearch_ServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	})

	_, err := store.Search(context.Background(), []float32{0.5}, 3)
	assert.Error(t, err)
}
