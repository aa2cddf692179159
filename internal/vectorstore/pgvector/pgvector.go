package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rag-agent/internal/config"
	"rag-agent/internal/models"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Store keeps embedded chunks in a Postgres table with a pgvector column.
// The collection name doubles as the table name.
type Store struct {
	db    *bun.DB
	table string
}

type row struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64   `bun:"id,pk,autoincrement"`
	Content       string  `bun:"content,notnull"`
	Source        string  `bun:"source"`
	PageNumber    int     `bun:"page_number"`
	ChunkID       int     `bun:"chunk_id"`
	Score         float32 `bun:"score,scanonly"`
}

func NewStore(cfg *config.PostgresConfig, collection string) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if password := os.Getenv(cfg.PasswordEnv); password != "" {
		opts = append(opts, pgdriver.WithPassword(password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db, table: collection}, nil
}

func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension: %d", dimension)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enabling pgvector extension: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTableDDL(s.table, dimension)); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

func createTableDDL(table string, dimension int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id BIGSERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		source TEXT,
		page_number INT,
		chunk_id INT,
		embedding vector(%d) NOT NULL
	)`, table, dimension)
}

func (s *Store) Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch")
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range chunks {
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf("INSERT INTO %q (content, source, page_number, chunk_id, embedding) VALUES (?, ?, ?, ?, ?::vector)", s.table),
				chunks[i].Content, chunks[i].SourceFilename, chunks[i].PageNumber, chunks[i].ChunkID, vectorLiteral(vectors[i]),
			)
			if err != nil {
				return fmt.Errorf("inserting chunk %d: %w", chunks[i].ChunkID, err)
			}
		}
		return nil
	})
}

// Search orders by the pgvector distance operator, nearest first. The score
// returned is the raw distance, so lower means closer.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]models.SearchResult, error) {
	var rows []row
	err := s.db.NewSelect().
		Model(&rows).
		ModelTableExpr(fmt.Sprintf("%q AS d", s.table)).
		Column("content", "source", "page_number", "chunk_id").
		ColumnExpr("embedding <-> ?::vector AS score", vectorLiteral(vector)).
		OrderExpr("embedding <-> ?::vector", vectorLiteral(vector)).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]models.SearchResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, models.SearchResult{
			Content:        r.Content,
			SourceFilename: r.Source,
			PageNumber:     r.PageNumber,
			Score:          r.Score,
		})
	}
	return results, nil
}

// vectorLiteral renders a vector in pgvector's input format, e.g. [0.1,0.2].
func vectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
