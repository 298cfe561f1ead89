package tools

import (
	"context"
	"fmt"
	"strings"

	"courserag/internal/domain"
)

// CourseOutlineTool returns a course's title, link, instructor and ordered
// lesson list for structure/syllabus questions.
type CourseOutlineTool struct {
	store domain.CourseSearcher
}

// NewCourseOutlineTool creates the outline tool backed by a store.
func NewCourseOutlineTool(store domain.CourseSearcher) *CourseOutlineTool {
	return &CourseOutlineTool{store: store}
}

// Definition returns the outline tool's schema.
func (t *CourseOutlineTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course: title, link, instructor and the complete lesson list",
		Parameters: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work)",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute resolves the course and formats its outline.
func (t *CourseOutlineTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	courseName := stringArg(args, "course_name")
	course, summary, err := t.store.Outline(courseName)
	if err != nil {
		return Result{Text: fmt.Sprintf("No course found matching '%s'", courseName)}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Course Title: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&sb, "Course Link: %s\n", course.Link)
	}
	if course.Instructor != "" {
		fmt.Fprintf(&sb, "Instructor: %s\n", course.Instructor)
	}
	if summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", summary)
	}
	fmt.Fprintf(&sb, "\nLessons (%d):\n", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&sb, "%d. %s\n", lesson.Number, lesson.Title)
	}

	source := domain.Source{Text: course.Title, Link: course.Link}
	return Result{Text: sb.String(), Sources: []domain.Source{source}}, nil
}
