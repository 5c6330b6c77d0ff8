package component

import (
	"fmt"

	"legal-assistant/llm/agent"
	"legal-assistant/pubsub"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const readyText = "Ready"

// BusyMsg starts the spinner with a description of the running task
type BusyMsg struct {
	Text string
}

// IdleMsg stops the spinner started by BusyMsg
type IdleMsg struct{}

// StatusModel shows the active mode and a spinner while work is running
type StatusModel struct {
	spinner   spinner.Model
	mode      agent.Mode
	streaming bool
	busy      string
	width     int
}

// NewStatusModel creates an idle status line for mode
func NewStatusModel(mode agent.Mode) StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		spinner: s,
		mode:    mode,
	}
}

// Init implements tea.Model
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update tracks streaming replies and explicit busy/idle messages
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	wasRunning := m.running()

	switch msg := msg.(type) {
	case pubsub.Event[agent.Message]:
		switch {
		case msg.Type == pubsub.CreatedEvent && msg.Payload.Pending:
			m.streaming = true
		case msg.Type == pubsub.FinishedEvent:
			m.streaming = false
		}
	case BusyMsg:
		m.busy = msg.Text
	case IdleMsg:
		m.busy = ""
	}

	if m.running() && !wasRunning {
		return m, m.spinner.Tick
	}
	if m.running() {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m StatusModel) running() bool {
	return m.streaming || m.busy != ""
}

// Text returns the status text without the spinner
func (m StatusModel) Text() string {
	switch {
	case m.busy != "":
		return m.busy
	case m.streaming:
		return "Thinking..."
	default:
		return readyText
	}
}

// View implements tea.Model
func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 0)
	content := fmt.Sprintf("[%s] %s", m.mode, m.Text())
	if m.running() {
		content = fmt.Sprintf("[%s] %s %s", m.mode, m.spinner.View(), m.Text())
	}
	return style.Render(content)
}

// SetMode changes the mode shown
func (m *StatusModel) SetMode(mode agent.Mode) {
	m.mode = mode
}

// SetWidth sets the component width
func (m *StatusModel) SetWidth(width int) {
	m.width = width
}
