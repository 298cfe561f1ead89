package vectorstore

import "courserag/internal/domain"

// Filter narrows a search to chunks of one course and optionally one lesson.
// CourseTitle must already be resolved to an exact indexed title.
type Filter struct {
	CourseTitle  string
	LessonNumber *int
}

// Matches reports whether a chunk satisfies the filter.
func (f Filter) Matches(c domain.Chunk) bool {
	if f.CourseTitle != "" && c.CourseTitle != f.CourseTitle {
		return false
	}
	if f.LessonNumber != nil && c.LessonNumber != *f.LessonNumber {
		return false
	}
	return true
}

// Storage persists chunk vectors and supports filtered similarity search.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	Search(vector []float64, topK int, filter Filter) ([]domain.ScoredChunk, error)
	Clear() error
}
