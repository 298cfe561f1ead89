package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"courserag/internal/docparse"
	"courserag/internal/domain"
	"courserag/internal/observability"
	"courserag/internal/orchestrator"
	"courserag/internal/search"
	"courserag/internal/session"
	"courserag/internal/vectorstore"
)

// Answerer runs one question through the model orchestration loop.
type Answerer interface {
	Run(ctx context.Context, query, history string) (string, []domain.Source, error)
}

// RAGServiceImpl wires ingest (parse, chunk, embed, index) and query
// (session history plus tool orchestration) into the operations the outer
// surfaces expose.
type RAGServiceImpl struct {
	chunker             domain.Chunker
	embedder            domain.Embedder
	content             vectorstore.Storage
	catalog             *search.CourseStore
	summarizer          domain.Summarizer
	summaryMaxSentences int
	orchestrator        Answerer
	sessions            *session.Manager
	log                 zerolog.Logger

	mu   sync.Mutex
	docs []ingestedCourse
}

type ingestedCourse struct {
	course  domain.Course
	summary string
	chunks  []domain.Chunk
}

// NewRAGService assembles the application core from its parts.
func NewRAGService(
	chunker domain.Chunker,
	embedder domain.Embedder,
	content vectorstore.Storage,
	catalog *search.CourseStore,
	summarizer domain.Summarizer,
	summaryMaxSentences int,
	answerer Answerer,
	sessions *session.Manager,
) *RAGServiceImpl {
	return &RAGServiceImpl{
		chunker:             chunker,
		embedder:            embedder,
		content:             content,
		catalog:             catalog,
		summarizer:          summarizer,
		summaryMaxSentences: summaryMaxSentences,
		orchestrator:        answerer,
		sessions:            sessions,
		log:                 observability.ComponentLogger("service"),
	}
}

// AddCourseDocument parses one transcript file and indexes its content.
// Returns the parsed course and the number of chunks created for it.
func (s *RAGServiceImpl) AddCourseDocument(path string) (*domain.Course, int, error) {
	parsed, err := docparse.ParseFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCourseLocked(parsed.Course.Title) {
		return nil, 0, fmt.Errorf("course %q already indexed", parsed.Course.Title)
	}
	doc := s.buildCourse(parsed)
	s.docs = append(s.docs, doc)
	if err := s.rebuildLocked(); err != nil {
		s.docs = s.docs[:len(s.docs)-1]
		return nil, 0, err
	}

	observability.RecordIngest(len(doc.chunks))
	s.log.Info().Str("course", doc.course.Title).Int("chunks", len(doc.chunks)).Msg("course indexed")
	course := doc.course
	return &course, len(doc.chunks), nil
}

// AddCourseFolder indexes every .txt transcript in a folder, skipping courses
// already present. With clearExisting, previously indexed content is dropped
// first. Returns the number of courses and chunks added.
func (s *RAGServiceImpl) AddCourseFolder(path string, clearExisting bool) (int, int, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read folder %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if clearExisting {
		s.log.Info().Msg("clearing existing course data")
		s.docs = nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var added []ingestedCourse
	for _, name := range names {
		parsed, err := docparse.ParseFile(filepath.Join(path, name))
		if err != nil {
			s.log.Warn().Str("file", name).Err(err).Msg("skipping unparseable transcript")
			continue
		}
		if s.hasCourseLocked(parsed.Course.Title) || hasTitle(added, parsed.Course.Title) {
			continue
		}
		added = append(added, s.buildCourse(parsed))
	}
	if len(added) == 0 && !clearExisting {
		return 0, 0, nil
	}

	prev := s.docs
	s.docs = append(s.docs, added...)
	if err := s.rebuildLocked(); err != nil {
		s.docs = prev
		return 0, 0, err
	}

	chunksAdded := 0
	for _, doc := range added {
		chunksAdded += len(doc.chunks)
		observability.RecordIngest(len(doc.chunks))
	}
	s.log.Info().Int("courses", len(added)).Int("chunks", chunksAdded).Msg("folder indexed")
	return len(added), chunksAdded, nil
}

// Query answers one question, carrying the session's prior exchanges as
// conversational context and recording the new exchange on success.
func (s *RAGServiceImpl) Query(ctx context.Context, query, sessionID string) (string, []domain.Source, error) {
	start := time.Now()
	history := s.sessions.History(sessionID)

	answer, sources, err := s.orchestrator.Run(ctx, query, history)
	observability.RecordQuery(start, err == nil)
	if err != nil {
		s.log.Error().Err(err).Msg("query failed")
		return "", nil, err
	}

	s.sessions.AddExchange(sessionID, query, answer)
	s.log.Debug().
		Dur("took", time.Since(start)).
		Int("sources", len(sources)).
		Msg("query answered")
	return answer, sources, nil
}

// Analytics reports the indexed course count and their titles.
func (s *RAGServiceImpl) Analytics() (int, []string) {
	return s.catalog.Count(), s.catalog.Titles()
}

func (s *RAGServiceImpl) buildCourse(parsed *docparse.ParsedCourse) ingestedCourse {
	var chunks []domain.Chunk
	var full strings.Builder
	if parsed.Preamble != "" {
		chunks = append(chunks, s.chunker.Chunk(parsed.Course.Title, -1, parsed.Preamble)...)
		full.WriteString(parsed.Preamble)
		full.WriteString("\n")
	}
	for i, lesson := range parsed.Course.Lessons {
		text := parsed.LessonTexts[i]
		chunks = append(chunks, s.chunker.Chunk(parsed.Course.Title, lesson.Number, text)...)
		full.WriteString(text)
		full.WriteString("\n")
	}

	summary, err := s.summarizer.Summarize(full.String(), s.summaryMaxSentences)
	if err != nil {
		s.log.Warn().Str("course", parsed.Course.Title).Err(err).Msg("summarization failed")
		summary = ""
	}
	return ingestedCourse{course: parsed.Course, summary: summary, chunks: chunks}
}

// rebuildLocked re-prepares the embedder over the full corpus and reindexes
// everything. A full rebuild keeps vocabulary-sensitive embedders consistent
// when new material arrives.
func (s *RAGServiceImpl) rebuildLocked() error {
	var allChunks []domain.Chunk
	corpus := make([]string, 0, 64)
	for _, doc := range s.docs {
		for _, chunk := range doc.chunks {
			allChunks = append(allChunks, chunk)
			corpus = append(corpus, chunk.Content)
		}
		corpus = append(corpus, doc.course.Title)
	}

	if err := s.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}
	if err := s.content.Init(s.embedder.Dimension()); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := s.content.Clear(); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}

	vectors := make([][]float64, len(allChunks))
	for i, chunk := range allChunks {
		vec, err := s.embedder.Embed(chunk.Content)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %s: %w", chunk.ChunkIndex, chunk.CourseTitle, err)
		}
		vectors[i] = vec
	}
	if len(allChunks) > 0 {
		if err := s.content.Upsert(allChunks, vectors); err != nil {
			return fmt.Errorf("upsert chunks: %w", err)
		}
	}

	// Catalog-only reset: Clear would also wipe the chunk vectors upserted
	// just above.
	s.catalog.ResetCatalog()
	for _, doc := range s.docs {
		s.catalog.AddCourse(doc.course, doc.summary)
	}
	return nil
}

func (s *RAGServiceImpl) hasCourseLocked(title string) bool {
	for _, doc := range s.docs {
		if doc.course.Title == title {
			return true
		}
	}
	return false
}

func hasTitle(docs []ingestedCourse, title string) bool {
	for _, doc := range docs {
		if doc.course.Title == title {
			return true
		}
	}
	return false
}

var _ domain.RAGService = (*RAGServiceImpl)(nil)
var _ Answerer = (*orchestrator.Orchestrator)(nil)
