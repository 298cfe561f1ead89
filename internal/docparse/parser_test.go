package docparse

import (
	"strings"
	"testing"
)

const sampleTranscript = `Course Title: Building Towards Computer Use
Course Link: https://example.com/course
Course Instructor: Colt Steele

Lesson 0: Introduction
Lesson Link: https://example.com/lesson/0
Welcome to the course. This lesson introduces the topic.

Lesson 1: Getting Started
First you need an API key. Then you can make requests.
`

func TestParseHeader(t *testing.T) {
	parsed, err := Parse(sampleTranscript)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := parsed.Course
	if c.Title != "Building Towards Computer Use" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Link != "https://example.com/course" {
		t.Errorf("link = %q", c.Link)
	}
	if c.Instructor != "Colt Steele" {
		t.Errorf("instructor = %q", c.Instructor)
	}
}

func TestParseLessons(t *testing.T) {
	parsed, err := Parse(sampleTranscript)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Course.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(parsed.Course.Lessons))
	}
	l0 := parsed.Course.Lessons[0]
	if l0.Number != 0 || l0.Title != "Introduction" || l0.Link != "https://example.com/lesson/0" {
		t.Errorf("lesson 0 = %+v", l0)
	}
	l1 := parsed.Course.Lessons[1]
	if l1.Number != 1 || l1.Title != "Getting Started" || l1.Link != "" {
		t.Errorf("lesson 1 = %+v", l1)
	}
	if len(parsed.LessonTexts) != 2 {
		t.Fatalf("lesson texts = %d, want 2", len(parsed.LessonTexts))
	}
	if !strings.Contains(parsed.LessonTexts[0], "Welcome to the course") {
		t.Errorf("lesson 0 text = %q", parsed.LessonTexts[0])
	}
	if !strings.Contains(parsed.LessonTexts[1], "API key") {
		t.Errorf("lesson 1 text = %q", parsed.LessonTexts[1])
	}
}

func TestParsePreamble(t *testing.T) {
	content := "Course Title: T\n\nSome intro text before lessons.\nLesson 1: A\nbody\n"
	parsed, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Preamble != "Some intro text before lessons." {
		t.Errorf("preamble = %q", parsed.Preamble)
	}
}

func TestParseMissingTitle(t *testing.T) {
	if _, err := Parse("just some text\nwithout a header\n"); err == nil {
		t.Fatal("expected error for missing course title")
	}
}
