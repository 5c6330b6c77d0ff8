package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EditorSubmitMsg carries the submitted input line
type EditorSubmitMsg struct {
	Value string
}

// EditModel is the single-line input box
type EditModel struct {
	textarea textarea.Model
	width    int
}

// NewEditModel creates a focused input box
func NewEditModel() EditModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a legal question or type /help..."
	ta.Focus()

	ta.Prompt = "> "
	ta.CharLimit = 4000

	ta.SetWidth(30)
	ta.SetHeight(1)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false

	// Enter submits
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return EditModel{
		textarea: ta,
		width:    30,
	}
}

// Init implements tea.Model
func (m EditModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update submits the trimmed input on Enter and clears it on Esc.
// Blank input is never submitted.
func (m EditModel) Update(msg tea.Msg) (EditModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.textarea.Value())
			if value == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, func() tea.Msg {
				return EditorSubmitMsg{Value: value}
			}
		case tea.KeyEsc:
			m.textarea.Reset()
			return m, nil
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m *EditModel) View() string {
	return m.textarea.View()
}

// SetWidth resizes the input box
func (m *EditModel) SetWidth(width int) {
	m.width = width
	m.textarea.SetWidth(width)
}

// Height returns the rendered height
func (m *EditModel) Height() int {
	return m.textarea.Height()
}
