package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courserag/internal/domain"
	"courserag/internal/session"
)

type fakeService struct {
	answer        string
	sources       []domain.Source
	err           error
	lastQuery     string
	lastSessionID string
	total         int
	titles        []string
}

func (f *fakeService) AddCourseDocument(path string) (*domain.Course, int, error) {
	return nil, 0, nil
}

func (f *fakeService) AddCourseFolder(path string, clearExisting bool) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeService) Query(ctx context.Context, query, sessionID string) (string, []domain.Source, error) {
	f.lastQuery, f.lastSessionID = query, sessionID
	return f.answer, f.sources, f.err
}

func (f *fakeService) Analytics() (int, []string) {
	return f.total, f.titles
}

func newTestServer(service domain.RAGService) http.Handler {
	return New(service, session.NewManager(2), "").Handler()
}

func TestQueryEndpoint(t *testing.T) {
	service := &fakeService{
		answer:  "MCP is a protocol.",
		sources: []domain.Source{{Text: "MCP - Lesson 1", Link: "https://a/1"}},
	}
	handler := newTestServer(service)

	body := `{"query": "What is MCP?", "session_id": "abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Answer    string          `json:"answer"`
		Sources   []domain.Source `json:"sources"`
		SessionID string          `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "MCP is a protocol." || resp.SessionID != "abc" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Link != "https://a/1" {
		t.Errorf("sources = %+v", resp.Sources)
	}
	if service.lastQuery != "What is MCP?" || service.lastSessionID != "abc" {
		t.Errorf("service saw query=%q session=%q", service.lastQuery, service.lastSessionID)
	}
}

func TestQueryEndpointCreatesSession(t *testing.T) {
	handler := newTestServer(&fakeService{answer: "hi"})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query": "q"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("no session id allocated")
	}
}

func TestQueryEndpointValidation(t *testing.T) {
	handler := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query": ""}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{broken`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("broken body status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/query", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}
}

func TestQueryEndpointServiceError(t *testing.T) {
	handler := newTestServer(&fakeService{err: errors.New("api down")})

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query": "q"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api down") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCoursesEndpoint(t *testing.T) {
	handler := newTestServer(&fakeService{total: 2, titles: []string{"A", "B"}})

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		TotalCourses int      `json:"total_courses"`
		CourseTitles []string `json:"course_titles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalCourses != 2 || len(resp.CourseTitles) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	handler := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "req-42" {
		t.Errorf("request id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("request id not generated")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
