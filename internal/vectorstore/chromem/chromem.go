package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"rag-agent/internal/config"
	"rag-agent/internal/helper"
	"rag-agent/internal/models"

	"github.com/philippgille/chromem-go"
)

const compress = false

// Store is an embedded persistent vector store backed by chromem-go. Useful
// for running the whole pipeline without an external Qdrant instance.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

func NewStore(cfg *config.ChromemConfig, collection string) (*Store, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	return &Store{db: db, name: collection}, nil
}

// EnsureCollection creates or opens the collection. chromem derives the
// vector dimension from the first stored document, so dimension is only
// sanity-checked here.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension: %d", dimension)
	}
	c, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create/get collection: %v", err)
	}
	s.collection = c
	return nil
}

func (s *Store) Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch")
	}
	docs := make([]chromem.Document, len(chunks))
	for i := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return err
		}
		docs[i] = chromem.Document{
			ID:      id,
			Content: chunks[i].Content,
			Metadata: map[string]string{
				"source":   chunks[i].SourceFilename,
				"page":     strconv.Itoa(chunks[i].PageNumber),
				"chunk_id": strconv.Itoa(chunks[i].ChunkID),
			},
			Embedding: vectors[i],
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	// chromem rejects queries asking for more results than stored documents.
	if count := s.collection.Count(); limit > count {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}
	found, err := s.collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	results := make([]models.SearchResult, 0, len(found))
	for _, r := range found {
		res := models.SearchResult{
			Content:        r.Content,
			SourceFilename: r.Metadata["source"],
			Score:          r.Similarity,
		}
		if page, err := strconv.Atoi(r.Metadata["page"]); err == nil {
			res.PageNumber = page
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Store) ensure(ctx context.Context) error {
	if s.collection != nil {
		return nil
	}
	c, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create/get collection: %v", err)
	}
	s.collection = c
	return nil
}
