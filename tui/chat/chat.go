package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"legal-assistant/assistant"
	"legal-assistant/llm/agent"
	"legal-assistant/pubsub"
	"legal-assistant/tui/component"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// doneMsg reports the end of a background task
type doneMsg struct {
	notice string
	err    error
	// shown is set when the error already reached the transcript
	shown bool
}

// Model is the chat screen
type Model struct {
	list   component.ListModel
	edit   component.EditModel
	status component.StatusModel

	app *assistant.Assistant
	sub <-chan pubsub.Event[agent.Message]
	ctx context.Context

	processOnStart bool
	width          int
	height         int
}

// InitialModel creates the chat screen. With processOnStart the selected
// files are processed as soon as the program starts.
func InitialModel(ctx context.Context, app *assistant.Assistant, processOnStart bool) Model {
	mode := app.Mode()
	list := component.NewListModel(mode)
	list.SetMode(mode, app.Chat().Transcript().List(mode))

	return Model{
		list:           list,
		edit:           component.NewEditModel(),
		status:         component.NewStatusModel(mode),
		app:            app,
		sub:            app.Chat().Broker().Subscribe(ctx),
		ctx:            ctx,
		processOnStart: processOnStart,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.list.Init(),
		m.edit.Init(),
		m.status.Init(),
		m.waitForChatEvent(),
	}
	if m.processOnStart {
		cmds = append(cmds, m.execute(command{kind: cmdProcess}))
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForChatEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.sub
		if !ok {
			return nil
		}
		return event
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		m.list.SetSize(m.width, m.height-statusHeight-editHeight)
		m.edit.SetWidth(m.width)
		m.status.SetWidth(m.width)

	case component.EditorSubmitMsg:
		cmds = append(cmds, m.submit(strings.TrimSpace(msg.Value)))

	case doneMsg:
		switch {
		case msg.err != nil && !msg.shown:
			m.notify(msg.err.Error())
		case msg.notice != "":
			m.notify(msg.notice)
		}
		cmds = append(cmds, func() tea.Msg { return component.IdleMsg{} })

	case pubsub.Event[agent.Message]:
		cmds = append(cmds, m.waitForChatEvent())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
}

func (m *Model) notify(text string) {
	m.app.Chat().Notify(m.list.Mode(), text)
}

func (m *Model) submit(input string) tea.Cmd {
	if input == "" {
		return nil
	}
	if !strings.HasPrefix(input, "/") {
		return m.send(input)
	}

	c, err := parseCommand(input)
	if err != nil {
		m.notify(err.Error())
		return nil
	}
	return m.execute(c)
}

func (m *Model) send(text string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		_, err := app.Send(ctx, text)
		var sendErr *agent.SendError
		switch {
		case errors.As(err, &sendErr):
			return doneMsg{err: err, shown: true}
		case errors.Is(err, agent.ErrSendInProgress):
			return doneMsg{err: errors.New("wait for the current answer to finish")}
		}
		return doneMsg{err: err}
	}
}

// background runs fn off the UI loop with the spinner showing busy
func (m *Model) background(busy string, fn func(ctx context.Context) doneMsg) tea.Cmd {
	ctx := m.ctx
	return tea.Sequence(
		func() tea.Msg { return component.BusyMsg{Text: busy} },
		func() tea.Msg { return fn(ctx) },
	)
}

func (m *Model) execute(c command) tea.Cmd {
	app := m.app
	r := m.list.Renderer()

	switch c.kind {
	case cmdHelp:
		m.notify(helpText)
		return nil

	case cmdMode:
		mode := agent.Mode(strings.ToLower(c.args[0]))
		if !slices.Contains(app.Chat().Modes(), mode) {
			m.notify(fmt.Sprintf("Unknown mode %q.", c.args[0]))
			return nil
		}
		m.list.SetMode(mode, app.Chat().Transcript().List(mode))
		m.status.SetMode(mode)
		return m.background("Switching mode...", func(ctx context.Context) doneMsg {
			// load failures are already in the transcript of the mode
			return doneMsg{err: app.SwitchMode(ctx, mode), shown: true}
		})

	case cmdLoad:
		if err := app.LoadFiles(c.args); err != nil {
			m.notify(err.Error())
			return nil
		}
		m.notify(fmt.Sprintf("%d file(s) selected. Use /process to extract their text.", len(c.args)))
		return nil

	case cmdProcess:
		return m.background("Extracting text...", func(ctx context.Context) doneMsg {
			_, err := app.ProcessFiles(ctx)
			return doneMsg{err: err}
		})

	case cmdDocs:
		m.notify(r.RenderDocuments(app.Documents()))
		return nil

	case cmdAnalyze:
		doc, err := documentAt(app.Documents(), c.args[0])
		if err != nil {
			m.notify(err.Error())
			return nil
		}
		return m.background(fmt.Sprintf("Analyzing %s...", doc.Name), func(ctx context.Context) doneMsg {
			if err := app.AnalyzeDocument(ctx, doc.ID); err != nil {
				return doneMsg{err: err, shown: true}
			}
			analyzed, err := app.Document(doc.ID)
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{notice: r.RenderAnalysis(analyzed)}
		})

	case cmdShow:
		doc, err := documentAt(app.Documents(), c.args[0])
		if err != nil {
			m.notify(err.Error())
			return nil
		}
		m.notify(r.RenderAnalysis(doc))
		return nil

	case cmdCompare:
		var source assistant.SourceA
		if !strings.EqualFold(c.args[0], "reply") {
			doc, err := documentAt(app.Documents(), c.args[0])
			if err != nil {
				m.notify(err.Error())
				return nil
			}
			source.DocumentID = doc.ID
		}
		files, err := assistant.ReadFiles(c.args[1:])
		if err != nil {
			m.notify(err.Error())
			return nil
		}
		return m.background("Comparing documents...", func(ctx context.Context) doneMsg {
			result, err := app.Compare(ctx, source, files[0])
			if err != nil {
				return doneMsg{err: fmt.Errorf("comparison failed: %w", err)}
			}
			return doneMsg{notice: r.RenderComparison(result)}
		})

	case cmdExport:
		path := c.args[0]
		return m.background("Exporting...", func(context.Context) doneMsg {
			if err := app.ExportCSVFile(path); err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{notice: fmt.Sprintf("Analyses exported to %s.", path)}
		})

	case cmdSearch:
		number := strings.Join(c.args, " ")
		return m.background("Searching DataJud...", func(ctx context.Context) doneMsg {
			result, err := app.SearchProcess(ctx, number)
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{notice: result.Format()}
		})

	case cmdReset:
		app.Chat().ResetSession(m.list.Mode())
		return nil
	}
	return nil
}
