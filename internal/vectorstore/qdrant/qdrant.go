package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courserag/internal/domain"
	"courserag/internal/vectorstore"
)

// Storage is a minimal REST client to Qdrant. It assumes cosine distance and
// creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStorage creates a Qdrant-backed store.
func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection if it does not exist.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert writes chunks with their vectors as Qdrant points.
func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		points[i] = map[string]any{
			"id":     pointID(c),
			"vector": vectors[i],
			"payload": map[string]any{
				"course_title":  c.CourseTitle,
				"lesson_number": c.LessonNumber,
				"chunk_index":   c.ChunkIndex,
				"content":       c.Content,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search runs a filtered similarity search against the collection.
func (s *Storage) Search(vector []float64, topK int, filter vectorstore.Filter) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if cond := filterConditions(filter); len(cond) > 0 {
		req["filter"] = map[string]any{"must": cond}
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{LessonNumber: -1}
		if v, ok := r.Payload["course_title"].(string); ok {
			chunk.CourseTitle = v
		}
		if v, ok := r.Payload["lesson_number"].(float64); ok {
			chunk.LessonNumber = int(v)
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			chunk.ChunkIndex = int(v)
		}
		if v, ok := r.Payload["content"].(string); ok {
			chunk.Content = v
		}
		hits = append(hits, domain.ScoredChunk{Chunk: chunk, Score: r.Score})
	}
	return hits, nil
}

// Clear drops the collection. Best-effort: a missing collection is fine.
func (s *Storage) Clear() error {
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	s.setHeaders(req)
	_, _ = s.client.Do(req)
	return nil
}

func filterConditions(filter vectorstore.Filter) []map[string]any {
	var cond []map[string]any
	if filter.CourseTitle != "" {
		cond = append(cond, map[string]any{
			"key":   "course_title",
			"match": map[string]any{"value": filter.CourseTitle},
		})
	}
	if filter.LessonNumber != nil {
		cond = append(cond, map[string]any{
			"key":   "lesson_number",
			"match": map[string]any{"value": *filter.LessonNumber},
		})
	}
	return cond
}

func pointID(c domain.Chunk) string {
	return fmt.Sprintf("%s:%d:%d", c.CourseTitle, c.LessonNumber, c.ChunkIndex)
}

func (s *Storage) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Storage) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
