package tools

import (
	"context"
	"fmt"
	"strings"

	"courserag/internal/domain"
)

// CourseSearchTool performs semantic search over course content with optional
// course-name and lesson-number filtering.
type CourseSearchTool struct {
	store domain.CourseSearcher
}

// NewCourseSearchTool creates the content-search tool backed by a store.
func NewCourseSearchTool(store domain.CourseSearcher) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

// Definition returns the search tool's schema.
func (t *CourseSearchTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		Parameters: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute runs the search and formats results as labeled text blocks.
func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	query := stringArg(args, "query")
	courseName := stringArg(args, "course_name")
	lessonNumber := intArg(args, "lesson_number")

	results := t.store.Search(query, courseName, lessonNumber)
	if results.Err != "" {
		return Result{Text: results.Err}, nil
	}
	if results.IsEmpty() {
		var sb strings.Builder
		sb.WriteString("No relevant content found")
		if courseName != "" {
			fmt.Fprintf(&sb, " in course '%s'", courseName)
		}
		if lessonNumber != nil {
			fmt.Fprintf(&sb, " in lesson %d", *lessonNumber)
		}
		sb.WriteString(".")
		return Result{Text: sb.String()}, nil
	}
	return t.formatResults(results), nil
}

func (t *CourseSearchTool) formatResults(results domain.SearchResults) Result {
	var blocks []string
	var sources []domain.Source
	for _, doc := range results.Documents {
		header := doc.CourseTitle
		link := ""
		if doc.LessonNumber >= 0 {
			header = fmt.Sprintf("%s - Lesson %d", doc.CourseTitle, doc.LessonNumber)
			link = t.store.LessonLink(doc.CourseTitle, doc.LessonNumber)
		} else {
			link = t.store.CourseLink(doc.CourseTitle)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, doc.Content))
		sources = append(sources, domain.Source{Text: header, Link: link})
	}
	return Result{Text: strings.Join(blocks, "\n\n"), Sources: sources}
}
