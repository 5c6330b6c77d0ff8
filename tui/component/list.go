package component

import (
	"legal-assistant/llm/agent"
	"legal-assistant/pubsub"
	"legal-assistant/tui/component/renderer"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ListModel shows the transcript of the active mode. Rendering is delegated
// to a MessageRenderer.
type ListModel struct {
	viewport viewport.Model
	mode     agent.Mode
	messages []agent.Message
	width    int
	height   int
	ready    bool

	renderer *renderer.MessageRenderer
}

// NewListModel creates an empty transcript view for mode
func NewListModel(mode agent.Mode) ListModel {
	vp := viewport.New(30, 30)
	vp.SetContent(renderer.WelcomeText)

	return ListModel{
		viewport: vp,
		mode:     mode,
		messages: make([]agent.Message, 0),
		renderer: renderer.NewMessageRenderer(nil),
		width:    30,
		height:   5,
		ready:    true,
	}
}

// Init implements tea.Model
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update applies transcript events of the active mode
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[agent.Message]:
		if msg.Payload.Mode != m.mode {
			return m, nil
		}
		switch msg.Type {
		case pubsub.DeletedEvent:
			m.messages = m.messages[:0]
			m.renderer.Reset()
		default:
			m.upsert(msg.Payload)
		}
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// upsert appends msg or replaces the message with the same id
func (m *ListModel) upsert(msg agent.Message) {
	for i := range m.messages {
		if m.messages[i].ID == msg.ID {
			m.messages[i] = msg
			return
		}
	}
	m.messages = append(m.messages, msg)
}

// View implements tea.Model
func (m ListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}

// SetMode switches the view to mode, showing msgs
func (m *ListModel) SetMode(mode agent.Mode, msgs []agent.Message) {
	m.mode = mode
	m.messages = append(m.messages[:0], msgs...)
	m.renderer.Reset()
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// Mode returns the mode being shown
func (m ListModel) Mode() agent.Mode {
	return m.mode
}

// Messages returns the messages being shown
func (m ListModel) Messages() []agent.Message {
	return append([]agent.Message(nil), m.messages...)
}

// Renderer exposes the renderer for formatting command output
func (m ListModel) Renderer() *renderer.MessageRenderer {
	return m.renderer
}

// SetSize resizes the viewport
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	m.renderer.SetViewportWidth(width)

	if len(m.messages) > 0 {
		m.updateViewportContent()
	}
	m.viewport.GotoBottom()
}

func (m *ListModel) updateViewportContent() {
	m.viewport.SetContent(m.renderer.RenderMessages(m.messages))
}
