package memory

import (
	"errors"
	"sort"
	"sync"

	"courserag/internal/domain"
	"courserag/internal/vectorstore"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Vectors are assumed L2-normalized so the dot product is the similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage { return &Storage{} }

// Init sets the vector dimension and drops any existing data.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	return nil
}

// Upsert appends chunks with their vectors.
func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK most similar chunks satisfying the filter.
func (s *Storage) Search(vector []float64, topK int, filter vectorstore.Filter) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	var hits []domain.ScoredChunk
	for i := range s.vectors {
		if !filter.Matches(s.chunks[i]) {
			continue
		}
		hits = append(hits, domain.ScoredChunk{Chunk: s.chunks[i], Score: dot(s.vectors[i], vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// Clear drops all stored vectors and chunks.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
