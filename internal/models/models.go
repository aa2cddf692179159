package models

// Page is one unit of loaded document text. Loaders that have no page
// concept (txt, docx) produce a single page numbered 1.
type Page struct {
	Number  int
	Content string
}

// Chunk represents a bounded window of document text with its source metadata.
type Chunk struct {
	Content        string
	SourceFilename string
	PageNumber     int
	ChunkID        int
}

// SearchResult is one stored entry returned by a vector store, nearest-first.
// Score semantics follow the store's distance metric.
type SearchResult struct {
	Content        string
	SourceFilename string
	PageNumber     int
	Score          float32
}

// Answer pairs an LLM completion with the context chunks that produced it.
type Answer struct {
	Question    string
	Answer      string
	ContextUsed []string
}
