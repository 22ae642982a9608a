package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
	"docqa/internal/segment"
)

// ErrNoDocuments is returned when an ingest run produces no chunks at all.
var ErrNoDocuments = errors.New("no documents found")

// Indexer turns a documentation tree into an indexed, persisted vector store.
type Indexer struct {
	embedder  domain.Embedder
	store     domain.VectorStore
	chunkSize int
	overlap   int
	count     segment.CountFunc
}

// IngestStats summarizes one ingest run.
type IngestStats struct {
	Files   int
	Skipped int
	Chunks  int
}

// NewIndexer wires the ingestion pipeline.
func NewIndexer(embedder domain.Embedder, store domain.VectorStore, chunkSize, overlap int, count segment.CountFunc) *Indexer {
	return &Indexer{embedder: embedder, store: store, chunkSize: chunkSize, overlap: overlap, count: count}
}

// Ingest walks root, segments every readable file by its classified type,
// embeds the resulting chunks and adds them to the store. Files that cannot
// be read or extracted are skipped and counted, not fatal. The caller decides
// when to persist via the store's Save.
func (ix *Indexer) Ingest(ctx context.Context, root string) (IngestStats, error) {
	var stats IngestStats
	var chunks []domain.Chunk
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		fileType := segment.Classify(path)
		text, err := extractText(path, fileType)
		if err != nil || strings.TrimSpace(text) == "" {
			stats.Skipped++
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		fileChunks, err := segment.Segment(text, fileType, segment.Options{
			ChunkSize: ix.chunkSize,
			Overlap:   ix.overlap,
			Count:     ix.count,
			Metadata: map[string]string{
				"source":    rel,
				"file_type": string(fileType),
			},
		})
		if err != nil {
			return fmt.Errorf("segment %s: %w", rel, err)
		}
		stats.Files++
		chunks = append(chunks, fileChunks...)
		return nil
	})
	if err != nil {
		return stats, err
	}
	if len(chunks) == 0 {
		return stats, ErrNoDocuments
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("embed chunks: %w", err)
	}
	if err := ix.store.Add(chunks, vectors); err != nil {
		return stats, fmt.Errorf("index chunks: %w", err)
	}
	stats.Chunks = len(chunks)
	return stats, nil
}

// extractText reads a file as text. PDF files go through plain-text
// extraction; everything else is read verbatim.
func extractText(path string, fileType segment.FileType) (string, error) {
	if fileType == segment.TypePDF {
		f, reader, err := pdf.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r, err := reader.GetPlainText()
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
