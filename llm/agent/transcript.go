package agent

import (
	"sync"
)

// Transcript keeps the displayed messages of every mode
type Transcript struct {
	mu    sync.RWMutex
	msgs  map[Mode][]Message
	limit int
}

// NewTranscript creates a transcript keeping at most limit messages per mode.
// A non-positive limit keeps everything.
func NewTranscript(limit int) *Transcript {
	return &Transcript{
		msgs:  make(map[Mode][]Message),
		limit: limit,
	}
}

// Put appends msg, or replaces the stored message with the same id
func (t *Transcript) Put(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := t.msgs[msg.Mode]
	for i := range msgs {
		if msgs[i].ID == msg.ID {
			msgs[i] = msg.clone()
			return
		}
	}

	msgs = append(msgs, msg.clone())
	if t.limit > 0 && len(msgs) > t.limit {
		msgs = msgs[len(msgs)-t.limit:]
	}
	t.msgs[msg.Mode] = msgs
}

// List returns a copy of the messages of mode in order
func (t *Transcript) List(mode Mode) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	msgs := t.msgs[mode]
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.clone()
	}
	return out
}

// Clear drops every message of mode
func (t *Transcript) Clear(mode Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.msgs, mode)
}
