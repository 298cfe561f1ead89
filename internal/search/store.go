package search

import (
	"fmt"
	"strings"
	"sync"

	"courserag/internal/domain"
	"courserag/internal/vectorstore"
)

// minTitleSimilarity is the cosine similarity a course title vector must
// reach for a fuzzy name match when no substring match exists.
const minTitleSimilarity = 0.3

// CourseStore combines the chunk vector store with an in-memory course
// catalog. The catalog carries parsed metadata, per-course summaries and
// title vectors used for fuzzy course-name resolution.
type CourseStore struct {
	embedder   domain.Embedder
	content    vectorstore.Storage
	maxResults int

	mu      sync.RWMutex
	order   []string
	courses map[string]*catalogEntry
}

type catalogEntry struct {
	course    domain.Course
	summary   string
	titleVec  []float64
	hasVector bool
}

// NewCourseStore creates a store over the given embedder and chunk storage.
func NewCourseStore(embedder domain.Embedder, content vectorstore.Storage, maxResults int) *CourseStore {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &CourseStore{
		embedder:   embedder,
		content:    content,
		maxResults: maxResults,
		courses:    make(map[string]*catalogEntry),
	}
}

// AddCourse registers course metadata and its summary in the catalog.
func (s *CourseStore) AddCourse(course domain.Course, summary string) {
	entry := &catalogEntry{course: course, summary: summary}
	if vec, err := s.embedder.Embed(course.Title); err == nil && len(vec) > 0 {
		entry.titleVec = vec
		entry.hasVector = !isZero(vec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.courses[course.Title]; !exists {
		s.order = append(s.order, course.Title)
	}
	s.courses[course.Title] = entry
}

// HasCourse reports whether a course with this exact title is indexed.
func (s *CourseStore) HasCourse(title string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.courses[title]
	return ok
}

// Titles returns all indexed course titles in insertion order.
func (s *CourseStore) Titles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of indexed courses.
func (s *CourseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear drops the catalog and the underlying chunk storage.
func (s *CourseStore) Clear() error {
	s.ResetCatalog()
	return s.content.Clear()
}

// ResetCatalog drops course metadata only, leaving chunk storage untouched.
// Reindexing flows use this after repopulating the chunk store.
func (s *CourseStore) ResetCatalog() {
	s.mu.Lock()
	s.order = nil
	s.courses = make(map[string]*catalogEntry)
	s.mu.Unlock()
}

// ResolveCourseName maps a possibly partial course name to an exact indexed
// title: exact match, then case-insensitive substring, then title-vector
// similarity.
func (s *CourseStore) ResolveCourseName(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[name]; ok {
		return name, nil
	}
	lower := strings.ToLower(name)
	for _, title := range s.order {
		if strings.Contains(strings.ToLower(title), lower) {
			return title, nil
		}
	}
	if vec, err := s.embedder.Embed(name); err == nil && !isZero(vec) {
		best := ""
		bestScore := minTitleSimilarity
		for _, title := range s.order {
			entry := s.courses[title]
			if !entry.hasVector {
				continue
			}
			if score := dot(vec, entry.titleVec); score > bestScore {
				best = title
				bestScore = score
			}
		}
		if best != "" {
			return best, nil
		}
	}
	return "", fmt.Errorf("no course found matching %q", name)
}

// Search embeds the query and runs a filtered similarity search. Failures
// are reported inside SearchResults so callers can surface them as text.
func (s *CourseStore) Search(query, courseName string, lessonNumber *int) domain.SearchResults {
	filter := vectorstore.Filter{LessonNumber: lessonNumber}
	if courseName != "" {
		title, err := s.ResolveCourseName(courseName)
		if err != nil {
			return domain.SearchResults{Err: fmt.Sprintf("No course found matching '%s'", courseName)}
		}
		filter.CourseTitle = title
	}
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return domain.SearchResults{Err: fmt.Sprintf("Search error: %v", err)}
	}
	hits, err := s.content.Search(vec, s.maxResults, filter)
	if err != nil {
		return domain.SearchResults{Err: fmt.Sprintf("Search error: %v", err)}
	}
	results := domain.SearchResults{}
	for _, h := range hits {
		results.Documents = append(results.Documents, h.Chunk)
		results.Scores = append(results.Scores, h.Score)
	}
	return results
}

// Outline resolves a course name and returns its metadata and summary.
func (s *CourseStore) Outline(courseName string) (*domain.Course, string, error) {
	title, err := s.ResolveCourseName(courseName)
	if err != nil {
		return nil, "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry := s.courses[title]
	course := entry.course
	return &course, entry.summary, nil
}

// LessonLink returns the link of one lesson, or "" if unknown.
func (s *CourseStore) LessonLink(courseTitle string, lessonNumber int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.courses[courseTitle]
	if !ok {
		return ""
	}
	for _, lesson := range entry.course.Lessons {
		if lesson.Number == lessonNumber {
			return lesson.Link
		}
	}
	return ""
}

// CourseLink returns the link of a course, or "" if unknown.
func (s *CourseStore) CourseLink(courseTitle string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.courses[courseTitle]
	if !ok {
		return ""
	}
	return entry.course.Link
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
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
