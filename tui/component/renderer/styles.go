package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageStyles holds the styles of every transcript element
type MessageStyles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Pending   lipgloss.Style

	Source  lipgloss.Style
	Heading lipgloss.Style
	Error   lipgloss.Style
	Indent  lipgloss.Style
}

// DefaultMessageStyles returns the default palette
func DefaultMessageStyles() *MessageStyles {
	return &MessageStyles{
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		System:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4")).Italic(true),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		Indent:    lipgloss.NewStyle().PaddingLeft(2),
	}
}
