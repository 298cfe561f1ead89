package docparse

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"courserag/internal/domain"
)

// ParsedCourse is a course transcript split into metadata and lesson bodies.
// LessonTexts is aligned with Course.Lessons; Preamble holds any text between
// the header and the first lesson marker.
type ParsedCourse struct {
	Course      domain.Course
	Preamble    string
	LessonTexts []string
}

var lessonMarkerRe = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.+)$`)

// ParseFile reads a course transcript from disk and parses it.
func ParseFile(path string) (*ParsedCourse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course document: %w", err)
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return parsed, nil
}

// Parse extracts course metadata and per-lesson text from transcript content.
// The expected shape is a header of "Course Title:", "Course Link:" and
// "Course Instructor:" lines followed by "Lesson N: Title" sections, each
// optionally starting with a "Lesson Link:" line.
func Parse(content string) (*ParsedCourse, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	parsed := &ParsedCourse{}
	var body []string
	inHeader := true
	for scanner.Scan() {
		line := scanner.Text()
		if inHeader {
			switch {
			case strings.HasPrefix(line, "Course Title:"):
				parsed.Course.Title = strings.TrimSpace(strings.TrimPrefix(line, "Course Title:"))
				continue
			case strings.HasPrefix(line, "Course Link:"):
				parsed.Course.Link = strings.TrimSpace(strings.TrimPrefix(line, "Course Link:"))
				continue
			case strings.HasPrefix(line, "Course Instructor:"):
				parsed.Course.Instructor = strings.TrimSpace(strings.TrimPrefix(line, "Course Instructor:"))
				continue
			case strings.TrimSpace(line) == "":
				continue
			}
			inHeader = false
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if parsed.Course.Title == "" {
		return nil, fmt.Errorf("missing Course Title header")
	}

	var current *domain.Lesson
	var currentText []string
	flush := func() {
		if current == nil {
			parsed.Preamble = strings.TrimSpace(strings.Join(currentText, "\n"))
		} else {
			parsed.Course.Lessons = append(parsed.Course.Lessons, *current)
			parsed.LessonTexts = append(parsed.LessonTexts, strings.TrimSpace(strings.Join(currentText, "\n")))
		}
		currentText = nil
	}
	for i := 0; i < len(body); i++ {
		line := body[i]
		if m := lessonMarkerRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &domain.Lesson{Number: number, Title: strings.TrimSpace(m[2])}
			// An optional link line directly follows the marker.
			if i+1 < len(body) {
				next := strings.TrimSpace(body[i+1])
				if strings.HasPrefix(next, "Lesson Link:") {
					current.Link = strings.TrimSpace(strings.TrimPrefix(next, "Lesson Link:"))
					i++
				}
			}
			continue
		}
		currentText = append(currentText, line)
	}
	flush()

	return parsed, nil
}
