// Package flat provides a brute-force exact nearest-neighbor vector store
// with a parallel document table and durable named snapshots. Exact search is
// adequate for documentation-scale corpora; the store satisfies the
// domain.VectorStore contract, so an approximate index can replace it without
// touching callers.
package flat

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"docqa/internal/domain"
)

// Metric selects how query and stored vectors are compared.
type Metric string

const (
	// MetricL2 ranks by squared Euclidean distance, ascending.
	MetricL2 Metric = "l2"
	// MetricIP ranks by inner product, descending.
	MetricIP Metric = "ip"
)

var (
	ErrBadDimension      = errors.New("dimension must be positive")
	ErrBadMetric         = errors.New("unsupported metric")
	ErrLengthMismatch    = errors.New("chunks and vectors length mismatch")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrCorruptSnapshot   = errors.New("corrupt snapshot")
)

// Store holds the embedding index and the document table. The two are always
// the same length and positionally aligned: vectors[i] belongs to docs[i] and
// docs[i].ID == i. A single lock serializes all mutation against all reads.
type Store struct {
	mu      sync.RWMutex
	dim     int
	metric  Metric
	dir     string
	vectors [][]float32
	docs    []domain.IndexedDocument
}

// New creates an empty store for vectors of the given dimension, persisting
// snapshots under dir.
func New(dimension int, metric Metric, dir string) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadDimension, dimension)
	}
	switch metric {
	case MetricL2, MetricIP:
	case "":
		metric = MetricL2
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadMetric, metric)
	}
	return &Store{dim: dimension, metric: metric, dir: dir}, nil
}

// Dimension returns the fixed vector dimension of the store.
func (s *Store) Dimension() int { return s.dim }

// Len returns the number of indexed documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Add appends chunks and their vectors, assigning each document the next
// sequential id. All inputs are validated before anything is appended, so a
// failed call leaves both the index and the table untouched. If either input
// is empty the call is a no-op.
func (s *Store) Add(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", ErrLengthMismatch, len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != s.dim {
			return fmt.Errorf("%w: vector %d has dimension %d, store has %d", ErrDimensionMismatch, i, len(v), s.dim)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	base := len(s.docs)
	for i, ch := range chunks {
		s.docs = append(s.docs, domain.IndexedDocument{ID: base + i, Chunk: ch})
	}
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the min(k, Len()) documents nearest to query under the
// store's metric, best first, ties broken by ascending id. An empty store
// yields an empty result, not an error.
func (s *Store) Search(query []float32, k int) ([]domain.ScoredDocument, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d", ErrDimensionMismatch, len(query), s.dim)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 || k <= 0 {
		return nil, nil
	}
	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = s.score(query, v)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	better := s.betterFunc()
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] != scores[j] {
			return better(scores[i], scores[j])
		}
		return i < j
	})
	if k > len(order) {
		k = len(order)
	}
	results := make([]domain.ScoredDocument, k)
	for n := 0; n < k; n++ {
		i := order[n]
		results[n] = domain.ScoredDocument{IndexedDocument: s.docs[i], Score: scores[i]}
	}
	return results, nil
}

func (s *Store) score(a, b []float32) float64 {
	switch s.metric {
	case MetricIP:
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return dot
	default:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return sum
	}
}

func (s *Store) betterFunc() func(a, b float64) bool {
	if s.metric == MetricIP {
		return func(a, b float64) bool { return a > b }
	}
	return func(a, b float64) bool { return a < b }
}
