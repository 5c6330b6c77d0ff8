package component

import (
	"testing"

	"legal-assistant/llm"
	"legal-assistant/llm/agent"
	"legal-assistant/pubsub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t pubsub.EventType, msg agent.Message) pubsub.Event[agent.Message] {
	return pubsub.Event[agent.Message]{Type: t, Payload: msg}
}

func TestListModel_AppliesEventsOfActiveMode(t *testing.T) {
	m := NewListModel(agent.ModeGeneral)

	reply := agent.NewMessage(agent.ModeGeneral, llm.RoleAssistant, "")
	reply.Pending = true
	m, _ = m.Update(event(pubsub.CreatedEvent, reply))

	reply.Text = "partial"
	m, _ = m.Update(event(pubsub.UpdatedEvent, reply))

	other := agent.NewMessage(agent.ModeCDC, llm.RoleSystem, "loading")
	m, _ = m.Update(event(pubsub.CreatedEvent, other))

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "partial", msgs[0].Text)

	m, _ = m.Update(event(pubsub.DeletedEvent, agent.Message{Mode: agent.ModeGeneral}))
	assert.Empty(t, m.Messages())
}

func TestListModel_SetMode(t *testing.T) {
	m := NewListModel(agent.ModeGeneral)
	notice := agent.NewMessage(agent.ModeCDC, llm.RoleSystem, "loaded")

	m.SetMode(agent.ModeCDC, []agent.Message{notice})
	assert.Equal(t, agent.ModeCDC, m.Mode())
	assert.Len(t, m.Messages(), 1)
}

func TestStatusModel(t *testing.T) {
	s := NewStatusModel(agent.ModeGeneral)
	assert.Equal(t, "Ready", s.Text())

	pending := agent.NewMessage(agent.ModeGeneral, llm.RoleAssistant, "")
	pending.Pending = true
	s, cmd := s.Update(event(pubsub.CreatedEvent, pending))
	assert.NotNil(t, cmd)
	assert.Equal(t, "Thinking...", s.Text())

	s, _ = s.Update(BusyMsg{Text: "Extracting text..."})
	assert.Equal(t, "Extracting text...", s.Text())

	s, _ = s.Update(IdleMsg{})
	s, _ = s.Update(event(pubsub.FinishedEvent, pending))
	assert.Equal(t, "Ready", s.Text())
	assert.Contains(t, s.View(), "[general]")
}
