package search

import (
	"strings"
	"testing"

	"courserag/internal/domain"
	"courserag/internal/embedding/tfidf"
	"courserag/internal/vectorstore/memory"
)

func courseMCP() domain.Course {
	return domain.Course{
		Title:      "MCP: Build Rich-Context AI Apps",
		Link:       "https://example.com/mcp",
		Instructor: "Elie Schoppik",
		Lessons: []domain.Lesson{
			{Number: 0, Title: "Introduction", Link: "https://example.com/mcp/0"},
			{Number: 1, Title: "Why MCP", Link: "https://example.com/mcp/1"},
		},
	}
}

func courseComputerUse() domain.Course {
	return domain.Course{
		Title: "Building Towards Computer Use",
		Link:  "https://example.com/cu",
		Lessons: []domain.Lesson{
			{Number: 0, Title: "Introduction"},
		},
	}
}

func newStore(t *testing.T) *CourseStore {
	t.Helper()
	chunks := []domain.Chunk{
		{CourseTitle: "MCP: Build Rich-Context AI Apps", LessonNumber: 0, ChunkIndex: 0,
			Content: "MCP is a protocol for connecting models to context."},
		{CourseTitle: "MCP: Build Rich-Context AI Apps", LessonNumber: 1, ChunkIndex: 0,
			Content: "The protocol standardizes tool and resource discovery."},
		{CourseTitle: "Building Towards Computer Use", LessonNumber: 0, ChunkIndex: 0,
			Content: "Computer use lets a model operate a desktop environment."},
	}
	emb := tfidf.NewEmbedder()
	corpus := make([]string, 0, len(chunks)+2)
	for _, c := range chunks {
		corpus = append(corpus, c.Content)
	}
	corpus = append(corpus, courseMCP().Title, courseComputerUse().Title)
	if err := emb.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	content := memory.NewStorage()
	if err := content.Init(emb.Dimension()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		vec, err := emb.Embed(c.Content)
		if err != nil {
			t.Fatalf("Embed: %v", err)
		}
		vectors[i] = vec
	}
	if err := content.Upsert(chunks, vectors); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	store := NewCourseStore(emb, content, 5)
	store.AddCourse(courseMCP(), "A course about the protocol.")
	store.AddCourse(courseComputerUse(), "")
	return store
}

func TestResolveExactAndSubstring(t *testing.T) {
	store := newStore(t)
	title, err := store.ResolveCourseName("MCP: Build Rich-Context AI Apps")
	if err != nil || title != "MCP: Build Rich-Context AI Apps" {
		t.Errorf("exact resolve = %q, %v", title, err)
	}
	title, err = store.ResolveCourseName("computer use")
	if err != nil || title != "Building Towards Computer Use" {
		t.Errorf("substring resolve = %q, %v", title, err)
	}
}

func TestResolveUnknown(t *testing.T) {
	store := newStore(t)
	if _, err := store.ResolveCourseName("Underwater Basket Weaving"); err == nil {
		t.Fatal("expected resolution failure")
	}
}

func TestSearchUnfiltered(t *testing.T) {
	store := newStore(t)
	results := store.Search("protocol for connecting models", "", nil)
	if results.Err != "" {
		t.Fatalf("Err = %q", results.Err)
	}
	if results.IsEmpty() {
		t.Fatal("no results")
	}
	if !strings.Contains(results.Documents[0].Content, "protocol") {
		t.Errorf("top result = %q", results.Documents[0].Content)
	}
}

func TestSearchWithCourseFilter(t *testing.T) {
	store := newStore(t)
	results := store.Search("introduction to the topic", "computer use", nil)
	if results.Err != "" {
		t.Fatalf("Err = %q", results.Err)
	}
	for _, doc := range results.Documents {
		if doc.CourseTitle != "Building Towards Computer Use" {
			t.Errorf("filter leaked: %+v", doc)
		}
	}
}

func TestSearchWithLessonFilter(t *testing.T) {
	store := newStore(t)
	lesson := 1
	results := store.Search("protocol", "MCP", &lesson)
	if results.Err != "" {
		t.Fatalf("Err = %q", results.Err)
	}
	for _, doc := range results.Documents {
		if doc.LessonNumber != 1 {
			t.Errorf("lesson filter leaked: %+v", doc)
		}
	}
}

func TestSearchUnknownCourse(t *testing.T) {
	store := newStore(t)
	results := store.Search("anything", "No Such Course Exists Here", nil)
	if !strings.Contains(results.Err, "No course found matching") {
		t.Errorf("Err = %q", results.Err)
	}
}

func TestOutline(t *testing.T) {
	store := newStore(t)
	course, summary, err := store.Outline("MCP")
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if course.Title != "MCP: Build Rich-Context AI Apps" || len(course.Lessons) != 2 {
		t.Errorf("course = %+v", course)
	}
	if summary != "A course about the protocol." {
		t.Errorf("summary = %q", summary)
	}
}

func TestLinks(t *testing.T) {
	store := newStore(t)
	if link := store.LessonLink("MCP: Build Rich-Context AI Apps", 1); link != "https://example.com/mcp/1" {
		t.Errorf("lesson link = %q", link)
	}
	if link := store.LessonLink("MCP: Build Rich-Context AI Apps", 99); link != "" {
		t.Errorf("missing lesson link = %q", link)
	}
	if link := store.CourseLink("Building Towards Computer Use"); link != "https://example.com/cu" {
		t.Errorf("course link = %q", link)
	}
}

func TestResetCatalogKeepsContent(t *testing.T) {
	store := newStore(t)
	store.ResetCatalog()
	if store.Count() != 0 {
		t.Errorf("count after reset = %d", store.Count())
	}
	// Chunk vectors stay searchable; only course metadata is gone.
	results := store.Search("protocol for connecting models", "", nil)
	if results.Err != "" || results.IsEmpty() {
		t.Errorf("content lost on catalog reset: %+v", results)
	}
}

func TestClearDropsEverything(t *testing.T) {
	store := newStore(t)
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("count after clear = %d", store.Count())
	}
	results := store.Search("protocol for connecting models", "", nil)
	if !results.IsEmpty() {
		t.Errorf("content survived Clear: %+v", results)
	}
}

func TestTitlesInsertionOrder(t *testing.T) {
	store := newStore(t)
	titles := store.Titles()
	if len(titles) != 2 || titles[0] != "MCP: Build Rich-Context AI Apps" {
		t.Errorf("titles = %v", titles)
	}
	if store.Count() != 2 {
		t.Errorf("count = %d", store.Count())
	}
}
