package renderer

import (
	"fmt"
	"strings"

	"legal-assistant/document"
	"legal-assistant/llm"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/analysis"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// WelcomeText is shown while the transcript is empty
const WelcomeText = "Welcome to the legal assistant!\nType a question and press Enter, or /help for commands."

type cachedMessage struct {
	text     string
	pending  bool
	sources  int
	rendered string
}

// MessageRenderer renders transcript messages. Rendered messages are cached
// by id and re-rendered only when their content changes.
type MessageRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *MessageStyles
	cache            map[string]cachedMessage
	viewportWidth    int
}

// NewMessageRenderer creates a renderer; nil styles selects the defaults
func NewMessageRenderer(styles *MessageStyles) *MessageRenderer {
	if styles == nil {
		styles = DefaultMessageStyles()
	}

	markdownRenderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0),
	)
	return &MessageRenderer{
		markdownRenderer: markdownRenderer,
		styles:           styles,
		cache:            make(map[string]cachedMessage),
	}
}

// SetViewportWidth sets the wrapping width
func (r *MessageRenderer) SetViewportWidth(width int) {
	if width != r.viewportWidth {
		r.cache = make(map[string]cachedMessage)
	}
	r.viewportWidth = width
}

// Reset drops the render cache
func (r *MessageRenderer) Reset() {
	r.cache = make(map[string]cachedMessage)
}

// RenderMessages renders messages in order
func (r *MessageRenderer) RenderMessages(messages []agent.Message) string {
	if len(messages) == 0 {
		return WelcomeText
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		if rendered := r.cached(msg); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	content := strings.Join(parts, "\n\n")
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

func (r *MessageRenderer) cached(msg agent.Message) string {
	if c, ok := r.cache[msg.ID]; ok && c.text == msg.Text && c.pending == msg.Pending && c.sources == len(msg.Sources) {
		return c.rendered
	}
	rendered := r.RenderMessage(msg)
	r.cache[msg.ID] = cachedMessage{
		text:     msg.Text,
		pending:  msg.Pending,
		sources:  len(msg.Sources),
		rendered: rendered,
	}
	return rendered
}

// RenderMessage renders one message by sender
func (r *MessageRenderer) RenderMessage(msg agent.Message) string {
	switch msg.Sender {
	case llm.RoleUser:
		return r.renderUserMessage(msg)
	case llm.RoleAssistant:
		return r.renderAssistantMessage(msg)
	case llm.RoleSystem:
		return r.renderSystemMessage(msg)
	}
	return ""
}

func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func (r *MessageRenderer) renderUserMessage(msg agent.Message) string {
	if msg.Text == "" {
		return ""
	}
	return r.styles.User.Render("You:") + " " + msg.Text
}

func (r *MessageRenderer) renderAssistantMessage(msg agent.Message) string {
	header := r.styles.Assistant.Render("Assistant:")
	if msg.Text == "" {
		if msg.Pending {
			return header + "\n" + r.styles.Pending.Render("Thinking...")
		}
		return ""
	}

	parts := []string{header, r.renderMarkdown(msg.Text)}
	if len(msg.Sources) > 0 {
		parts = append(parts, r.renderSources(msg.Sources))
	}
	return strings.Join(parts, "\n")
}

func (r *MessageRenderer) renderSources(sources []llm.Reference) string {
	lines := []string{r.styles.Heading.Render("Sources:")}
	for i, src := range sources {
		title := src.Title
		if title == "" {
			title = ShortenURL(src.URI)
		}
		lines = append(lines, r.styles.Indent.Render(
			r.styles.Source.Render(fmt.Sprintf("[%d] %s", i+1, title))+" "+ShortenURL(src.URI)))
	}
	return strings.Join(lines, "\n")
}

func (r *MessageRenderer) renderSystemMessage(msg agent.Message) string {
	if msg.Text == "" {
		return ""
	}
	return r.styles.System.Render("System: " + msg.Text)
}

// RenderDocuments renders the numbered document list with analysis state
func (r *MessageRenderer) RenderDocuments(docs []*document.Document) string {
	if len(docs) == 0 {
		return "No documents selected. Use /load <files>."
	}

	lines := make([]string, 0, len(docs))
	for i, doc := range docs {
		state := "not processed"
		switch {
		case doc.AnalysisInProgress:
			state = "analyzing"
		case doc.AnalysisError != "":
			state = "error: " + doc.AnalysisError
		case doc.SWOT != nil:
			state = "analyzed"
		case doc.Text != "":
			state = fmt.Sprintf("%d characters", len([]rune(doc.Text)))
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s) %s", i+1, doc.Name, FormatBytes(len(doc.File.Data)), state))
	}
	return strings.Join(lines, "\n")
}

// RenderAnalysis renders the analysis fields of one document as markdown
func (r *MessageRenderer) RenderAnalysis(doc *document.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis of %s\n", doc.Name)
	if doc.Summary != "" {
		fmt.Fprintf(&sb, "\nSummary:\n%s\n", doc.Summary)
	}
	if doc.Insights != "" {
		fmt.Fprintf(&sb, "\nKey insights:\n%s\n", doc.Insights)
	}
	if s := doc.SWOT; !s.Empty() {
		for _, q := range []struct{ title, text string }{
			{"Strengths", s.Strengths},
			{"Weaknesses", s.Weaknesses},
			{"Opportunities", s.Opportunities},
			{"Threats", s.Threats},
		} {
			if q.text != "" {
				fmt.Fprintf(&sb, "\n%s:\n%s\n", q.title, q.text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// RenderComparison renders a comparison result with its header
func (r *MessageRenderer) RenderComparison(result *analysis.ComparisonResult) string {
	return fmt.Sprintf("Comparison: %s vs %s\n\n%s", result.NameA, result.NameB, result.Text)
}
