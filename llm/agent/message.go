package agent

import (
	"time"

	"legal-assistant/llm"

	"github.com/google/uuid"
)

// Message is a chat transcript entry as shown to the user. System messages
// carry notices and errors.
type Message struct {
	ID        string
	Mode      Mode
	Sender    llm.Role
	Text      string
	Timestamp time.Time
	Sources   []llm.Reference
	// Pending is set while an assistant reply is still streaming
	Pending bool
}

// NewMessage creates a message with a fresh id
func NewMessage(mode Mode, sender llm.Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Mode:      mode,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]llm.Reference(nil), m.Sources...)
	}
	return m
}
