package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const defaultMaxExchanges = 2

type exchange struct {
	query  string
	answer string
}

// Manager tracks per-session conversation history so follow-up questions can
// reference earlier answers. History is capped to the most recent exchanges.
type Manager struct {
	mu           sync.Mutex
	maxExchanges int
	sessions     map[string][]exchange
}

// NewManager creates a session manager keeping at most maxExchanges
// question/answer pairs per session. Non-positive values fall back to the
// default cap.
func NewManager(maxExchanges int) *Manager {
	if maxExchanges <= 0 {
		maxExchanges = defaultMaxExchanges
	}
	return &Manager{
		maxExchanges: maxExchanges,
		sessions:     make(map[string][]exchange),
	}
}

// CreateSession allocates a new empty session and returns its id.
func (m *Manager) CreateSession() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = nil
	m.mu.Unlock()
	return id
}

// AddExchange appends one question/answer pair, evicting the oldest pair when
// the session exceeds its cap. Unknown session ids are created on the fly.
func (m *Manager) AddExchange(id, query, answer string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	history := append(m.sessions[id], exchange{query: query, answer: answer})
	if len(history) > m.maxExchanges {
		history = history[len(history)-m.maxExchanges:]
	}
	m.sessions[id] = history
}

// History renders a session's exchanges as alternating User/Assistant lines.
// Empty or unknown sessions yield an empty string.
func (m *Manager) History(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := m.sessions[id]
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history)*2)
	for _, ex := range history {
		lines = append(lines, fmt.Sprintf("User: %s", ex.query))
		lines = append(lines, fmt.Sprintf("Assistant: %s", ex.answer))
	}
	return strings.Join(lines, "\n")
}

// Clear drops a single session's history.
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
