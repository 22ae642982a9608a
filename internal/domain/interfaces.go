package domain

import "context"

// Chunk is a bounded unit of retrievable text produced by the segmentation
// engine. It is created once and never mutated afterwards.
type Chunk struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// IndexedDocument is a Chunk that has been inserted into the vector store.
// IDs are assigned at insertion time, are unique and monotonically increasing,
// and are never reused.
type IndexedDocument struct {
	ID int `json:"id"`
	Chunk
}

// ScoredDocument is a copy of an IndexedDocument annotated with the raw
// metric value from a similarity search.
type ScoredDocument struct {
	IndexedDocument
	Score float64
}

// Source is a single citation attached to an answer: a preview of the chunk
// content, its metadata, and its raw distance or similarity score.
type Source struct {
	Content  string
	Metadata map[string]string
	Score    float64
}

// Answer is the result of one question-answering turn.
type Answer struct {
	Text    string
	Sources []Source
}

// Embedder converts texts into embedding vectors, one per input, in input
// order. Empty input yields empty output without a remote call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Completer generates an answer from a system prompt and a user prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// VectorStore owns an embedding index and the parallel document table, and
// persists both as a named snapshot.
type VectorStore interface {
	Add(chunks []Chunk, vectors [][]float32) error
	Search(query []float32, k int) ([]ScoredDocument, error)
	Save(name string) error
	Load(name string) (bool, error)
	Len() int
}
