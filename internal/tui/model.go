package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campus-assist/internal/domain"
)

// AssistantPort is the TUI-facing subset of the assistant service.
type AssistantPort interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

// Model is the Bubble Tea model for the interactive demo.
type Model struct {
	assistant AssistantPort
	input     textinput.Model
	viewport  viewport.Model
	answer    *domain.Answer
	status    string
	ready     bool
}

// New creates a new TUI model instance.
func New(assistant AssistantPort, indexed int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about campus facilities and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		input:     ti,
		viewport:  vp,
		status:    fmt.Sprintf("Ready - %d documents indexed. Type a question.", indexed),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, status, input frame, spacer
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
			if q == "" {
				break
			}
			if q == "quit" || q == "exit" {
				return m, tea.Quit
			}
			m.status = "Thinking..."
			ans, err := m.assistant.Ask(context.Background(), q)
			if err != nil {
				m.status = "Error: " + err.Error()
				m.answer = nil
			} else {
				m.status = fmt.Sprintf("Answered %q", q)
				m.answer = ans
				m.input.SetValue("")
			}
			m.viewport.SetContent(m.renderAnswer())
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Campus Resource Assistant")
	subtitle := dimStyle.Render("Libraries, labs, dining, offices, health, IT help, and more.")
	answer := answerBoxStyle.Render(m.viewport.View())
	input := questionBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + subtitle + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	var b strings.Builder
	if len(m.answer.Sources) > 0 {
		b.WriteString(sectionStyle.Render("── Retrieved Sources ──"))
		b.WriteString("\n")
		for i, src := range m.answer.Sources {
			relevance := (1 - m.answer.Distances[i]/2) * 100
			if relevance < 0 {
				relevance = 0
			}
			fmt.Fprintf(&b, "  [%d] %s (%s) - relevance ~%.0f%%\n",
				i+1, src.Metadata["name"], src.Metadata["type"], relevance)
		}
		b.WriteString("\n")
	}
	b.WriteString(sectionStyle.Render("── Answer ──"))
	b.WriteString("\n")
	b.WriteString(m.answer.Text)
	if len(m.answer.Sources) > 0 {
		names := make([]string, len(m.answer.Sources))
		for i, src := range m.answer.Sources {
			names[i] = src.Metadata["name"]
		}
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Sources: " + strings.Join(names, ", ")))
	}
	return b.String()
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sectionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
