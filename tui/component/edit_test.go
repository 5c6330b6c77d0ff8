package component

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditModel_SubmitTrimsInput(t *testing.T) {
	m := NewEditModel()
	m.textarea.SetValue("  /mode cdc  ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, EditorSubmitMsg{Value: "/mode cdc"}, cmd())
	assert.Empty(t, m.textarea.Value())
}

func TestEditModel_BlankInputIsIgnored(t *testing.T) {
	m := NewEditModel()
	m.textarea.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestEditModel_EscClears(t *testing.T) {
	m := NewEditModel()
	m.textarea.SetValue("draft question")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Empty(t, m.textarea.Value())
}
