package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"courserag/internal/domain"
)

// SentenceChunker splits lesson text into sentence-aligned chunks bounded by
// a character budget, with a character-based overlap between chunks.
type SentenceChunker struct {
	maxChars     int
	overlapChars int
	splitter     *regexp.Regexp
}

// NewSentenceChunker creates a chunker with the given character budget.
func NewSentenceChunker(maxChars, overlapChars int) *SentenceChunker {
	if maxChars <= 0 {
		maxChars = 800
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		overlapChars = 0
	}
	return &SentenceChunker{
		maxChars:     maxChars,
		overlapChars: overlapChars,
		splitter:     regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits text into chunks for one lesson of a course. Each chunk is
// prefixed with its course and lesson context so that retrieval hits stay
// interpretable in isolation. Pass lessonNumber -1 for text not tied to a
// specific lesson.
func (c *SentenceChunker) Chunk(courseTitle string, lessonNumber int, text string) []domain.Chunk {
	sentences := c.splitter.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		sentences = []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(sentences) {
		end := i
		size := 0
		for end < len(sentences) {
			next := len(sentences[end])
			if size > 0 && size+next+1 > c.maxChars {
				break
			}
			size += next
			if end > i {
				size++ // joining space
			}
			end++
		}
		piece := strings.Join(sentences[i:end], " ")
		chunks = append(chunks, domain.Chunk{
			CourseTitle:  courseTitle,
			LessonNumber: lessonNumber,
			ChunkIndex:   idx,
			Content:      c.contextualize(courseTitle, lessonNumber, piece),
		})
		idx++
		if end == len(sentences) {
			break
		}
		i = c.backtrack(sentences, i, end)
	}
	return chunks
}

// backtrack moves the next window start back far enough to cover the
// configured overlap, without revisiting the whole previous chunk.
func (c *SentenceChunker) backtrack(sentences []string, start, end int) int {
	if c.overlapChars == 0 {
		return end
	}
	covered := 0
	next := end
	for next > start+1 && covered < c.overlapChars {
		next--
		covered += len(sentences[next]) + 1
	}
	return next
}

func (c *SentenceChunker) contextualize(courseTitle string, lessonNumber int, piece string) string {
	if lessonNumber < 0 {
		return fmt.Sprintf("Course %s content: %s", courseTitle, piece)
	}
	return fmt.Sprintf("Course %s Lesson %d content: %s", courseTitle, lessonNumber, piece)
}
