package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rag-agent/internal/chunker"
	"rag-agent/internal/config"
	"rag-agent/internal/embedding"
	"rag-agent/internal/parser"
	"rag-agent/internal/vectorstore"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file to ingest")
	flag.Parse()

	if *filePath == "" {
		log.Fatal().Msg("Please provide a document file using the -file flag")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ingest(context.Background(), cfg, *filePath)
}

func ingest(ctx context.Context, cfg *config.Config, filePath string) {
	log.Info().Str("file", filePath).Msg("Loading document")
	pages, err := parser.Load(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	if len(pages) == 0 {
		log.Fatal().Msg("Document contains no text")
	}

	log.Info().Int("pages", len(pages)).Msg("Splitting into chunks")
	splitter, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid chunking configuration")
	}
	chunks := splitter.ChunkPages(filepath.Base(filePath), pages)
	if len(chunks) == 0 {
		log.Fatal().Msg("No chunks generated from document")
	}

	log.Info().Int("chunks", len(chunks)).Msg("Generating embeddings")
	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating embeddings")
	}

	log.Info().Str("collection", cfg.VectorStore.Collection).Msg("Storing chunks in vector store")
	store, err := vectorstore.New(&cfg.VectorStore)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector store")
	}
	if err := store.EnsureCollection(ctx, cfg.Embedding.Dimension); err != nil {
		log.Fatal().Err(err).Msg("Error creating collection")
	}
	if err := store.Upsert(ctx, chunks, vectors); err != nil {
		log.Fatal().Err(err).Msg("Error storing chunks")
	}

	log.Info().Int("chunks", len(chunks)).Msg("Ingestion completed")
}
