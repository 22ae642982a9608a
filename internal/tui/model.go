// Package tui provides the interactive question-answering terminal UI.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// AskPort is the TUI-facing subset of the assistant.
type AskPort interface {
	Answer(ctx context.Context, question string, k int) (domain.Answer, error)
}

// Model is the Bubble Tea model for the interactive assistant.
type Model struct {
	assistant AskPort
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	answer    domain.Answer
	status    string
	cursor    int
	ready     bool
	answered  bool
}

// New creates a new TUI model instance.
func New(assistant AskPort, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the documentation and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{assistant: assistant, topK: topK, input: ti, viewport: vp, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				ans, err := m.assistant.Answer(context.Background(), q, m.topK)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.answered = false
				} else {
					m.status = fmt.Sprintf("Answered %q (%d sources)", q, len(ans.Sources))
					m.answer = ans
					m.cursor = 0
					m.answered = true
				}
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "down":
			if len(m.answer.Sources) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Sources)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if len(m.answer.Sources) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Sources)) % len(m.answer.Sources)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout with the current answer and source.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Documentation Assistant")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if !m.answered {
		return "No answer yet."
	}
	out := m.answer.Text
	if len(m.answer.Sources) > 0 {
		src := m.answer.Sources[m.cursor]
		title := sourceTitleStyle.Render(fmt.Sprintf("Source %d/%d  score=%.4f  %s",
			m.cursor+1, len(m.answer.Sources), src.Score, sourceOrigin(src)))
		out += "\n\n" + title + "\n" + src.Content
	}
	return out
}

func sourceOrigin(src domain.Source) string {
	origin := src.Metadata["source"]
	if ctx := src.Metadata["header_context"]; ctx != "" {
		origin += "  " + ctx
	} else if ctx := src.Metadata["code_context"]; ctx != "" {
		origin += "  " + ctx
	}
	return origin
}

var (
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
