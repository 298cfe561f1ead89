package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"courserag/internal/domain"
)

// QueryPort is the TUI-facing subset of the application core.
type QueryPort interface {
	Query(ctx context.Context, query, sessionID string) (string, []domain.Source, error)
	Analytics() (int, []string)
}

// SessionPort allocates conversation sessions for the chat.
type SessionPort interface {
	CreateSession() string
}

// Model is the Bubble Tea model for the chat application. One session spans
// the whole TUI run so follow-up questions keep their context.
type Model struct {
	service   QueryPort
	input     textinput.Model
	viewport  viewport.Model
	sessionID string
	exchanges []exchange
	status    string
	waiting   bool
	ready     bool
}

type exchange struct {
	query   string
	answer  string
	sources []domain.Source
}

type answerMsg struct {
	query   string
	answer  string
	sources []domain.Source
	err     error
}

// New creates the chat model with a fresh session.
func New(service QueryPort, sessions SessionPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about course materials and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	total, _ := service.Analytics()
	return Model{
		service:   service,
		input:     ti,
		viewport:  vp,
		sessionID: sessions.CreateSession(),
		status:    fmt.Sprintf("%d courses loaded. Ask away.", total),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, query frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.exchanges = append(m.exchanges, exchange{
				query:   msg.query,
				answer:  msg.answer,
				sources: msg.sources,
			})
			m.status = "Ready."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.input.SetValue("")
				m.waiting = true
				m.status = "Thinking..."
				return m, m.ask(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(query string) tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		answer, sources, err := service.Query(context.Background(), query, sessionID)
		return answerMsg{query: query, answer: answer, sources: sources, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Course Materials Assistant")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.exchanges) == 0 {
		return "No questions yet."
	}
	var sb strings.Builder
	for i, ex := range m.exchanges {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(userStyle.Render("You: ") + ex.query)
		sb.WriteString("\n")
		sb.WriteString(assistantStyle.Render("Assistant: ") + ex.answer)
		if len(ex.sources) > 0 {
			sb.WriteString("\n" + sourceStyle.Render(renderSources(ex.sources)))
		}
	}
	return sb.String()
}

func renderSources(sources []domain.Source) string {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.Link != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", src.Text, src.Link))
		} else {
			parts = append(parts, src.Text)
		}
	}
	return "Sources: " + strings.Join(parts, ", ")
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
