package domain

import "context"

// Lesson is one entry in a course's ordered lesson list.
type Lesson struct {
	Number int
	Title  string
	Link   string
}

// Course holds the metadata parsed from a course transcript header.
type Course struct {
	Title      string
	Link       string
	Instructor string
	Lessons    []Lesson
}

// Chunk is a semantically meaningful part of a course transcript used for
// indexing. LessonNumber is -1 for text not tied to a specific lesson.
type Chunk struct {
	CourseTitle  string
	LessonNumber int
	ChunkIndex   int
	Content      string
}

// ScoredChunk is a matching chunk with a relevance score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// SearchResults carries matching chunks together with a store-level error.
// A non-empty Err means the search itself failed; callers surface it as text.
type SearchResults struct {
	Documents []Chunk
	Scores    []float64
	Err       string
}

// IsEmpty reports whether the search produced no matching documents.
func (r SearchResults) IsEmpty() bool { return len(r.Documents) == 0 }

// Source identifies where retrieved content came from, surfaced to the end
// user alongside the answer.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits lesson text into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(courseTitle string, lessonNumber int, text string) []Chunk
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// CourseSearcher is the retrieval contract the standing tools depend on.
type CourseSearcher interface {
	Search(query, courseName string, lessonNumber *int) SearchResults
	Outline(courseName string) (*Course, string, error)
	LessonLink(courseTitle string, lessonNumber int) string
	CourseLink(courseTitle string) string
}

// RAGService defines the operations exposed by the application core.
type RAGService interface {
	AddCourseDocument(path string) (*Course, int, error)
	AddCourseFolder(path string, clearExisting bool) (int, int, error)
	Query(ctx context.Context, query, sessionID string) (answer string, sources []Source, err error)
	Analytics() (totalCourses int, titles []string)
}
