package flat

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"docqa/internal/domain"
)

// DefaultSnapshot is the snapshot name used when none is given.
const DefaultSnapshot = "vector_store"

// Save writes the index and the document table as two artifacts under the
// store directory, overwriting any existing snapshot of the same name. Each
// artifact is written to a temp file and renamed into place, index first, so
// a crash mid-save leaves a readable pair behind.
func (s *Store) Save(name string) error {
	if name == "" {
		name = DefaultSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	indexData := encodeVectors(s.dim, s.vectors)
	docsData, err := json.Marshal(s.docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := writeAtomic(s.indexPath(name), indexData); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := writeAtomic(s.docsPath(name), docsData); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}

// Load restores a named snapshot. It returns (false, nil) when either
// artifact is absent, leaving the store unchanged. A snapshot that is present
// but unparseable or internally inconsistent fails with ErrCorruptSnapshot
// and also leaves the in-memory state untouched.
func (s *Store) Load(name string) (bool, error) {
	if name == "" {
		name = DefaultSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	indexData, err := os.ReadFile(s.indexPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read index: %w", err)
	}
	docsData, err := os.ReadFile(s.docsPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read documents: %w", err)
	}
	dim, vectors, err := decodeVectors(indexData)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if len(vectors) > 0 && dim != s.dim {
		return false, fmt.Errorf("%w: snapshot dimension %d, store dimension %d", ErrCorruptSnapshot, dim, s.dim)
	}
	var docs []domain.IndexedDocument
	if err := json.Unmarshal(docsData, &docs); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if len(docs) != len(vectors) {
		return false, fmt.Errorf("%w: %d documents, %d vectors", ErrCorruptSnapshot, len(docs), len(vectors))
	}
	for i := range docs {
		if docs[i].ID != i {
			return false, fmt.Errorf("%w: document %d has id %d", ErrCorruptSnapshot, i, docs[i].ID)
		}
	}
	s.vectors = vectors
	s.docs = docs
	return true, nil
}

func (s *Store) indexPath(name string) string {
	return filepath.Join(s.dir, name+".index")
}

func (s *Store) docsPath(name string) string {
	return filepath.Join(s.dir, name+".docs.json")
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// encodeVectors stores dim(uint32), count(uint32), then count*dim float32
// values, all little-endian.
func encodeVectors(dim int, vectors [][]float32) []byte {
	out := make([]byte, 8, 8+4*dim*len(vectors))
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(vectors)))
	var b [4]byte
	for _, vec := range vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
			out = append(out, b[:]...)
		}
	}
	return out
}

func decodeVectors(data []byte) (int, [][]float32, error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("index header truncated: %d bytes", len(data))
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	if dim < 0 || count < 0 {
		return 0, nil, fmt.Errorf("invalid index header: dim %d, count %d", dim, count)
	}
	want := 8 + 4*dim*count
	if len(data) != want {
		return 0, nil, fmt.Errorf("index size %d bytes, want %d", len(data), want)
	}
	vectors := make([][]float32, count)
	off := 8
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}
