package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"legal-assistant/llm"
	"legal-assistant/llm/prompts"
	"legal-assistant/llm/rag"
	"legal-assistant/pubsub"

	"go.uber.org/zap"
)

// terminalEventTimeout bounds how long a final event waits for slow subscribers
const terminalEventTimeout = 2 * time.Second

// ContextSource supplies the current retrieval context of a mode
type ContextSource interface {
	RetrievalContext(mode Mode) rag.Context
}

// ContextSourceFunc adapts a function to ContextSource
type ContextSourceFunc func(mode Mode) rag.Context

// RetrievalContext calls f
func (f ContextSourceFunc) RetrievalContext(mode Mode) rag.Context {
	return f(mode)
}

// Manager owns the current session of every mode. Sessions are created on
// first use and replaced, history included, when the retrieval context changes.
type Manager struct {
	client     llm.Client
	prompts    *prompts.Library
	modes      map[Mode]ModeConfig
	source     ContextSource
	broker     *pubsub.Broker[Message]
	transcript *Transcript
	logger     *zap.Logger

	// rebuildMu is held from reading the retrieval context until the
	// session built from it is stored
	rebuildMu sync.Mutex

	mu       sync.Mutex
	sessions map[Mode]*Session
	inFlight map[Mode]bool
}

// NewManager creates a session manager. broker receives every transcript
// change; a nil logger discards output.
func NewManager(client llm.Client, lib *prompts.Library, modes []ModeConfig, source ContextSource, broker *pubsub.Broker[Message], logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == nil {
		source = ContextSourceFunc(func(Mode) rag.Context { return nil })
	}
	if broker == nil {
		broker = pubsub.NewBroker[Message]()
	}

	byMode := make(map[Mode]ModeConfig, len(modes))
	for _, mc := range modes {
		byMode[mc.Mode] = mc
	}

	return &Manager{
		client:     client,
		prompts:    lib,
		modes:      byMode,
		source:     source,
		broker:     broker,
		transcript: NewTranscript(0),
		logger:     logger.Named("chat"),
		sessions:   make(map[Mode]*Session),
		inFlight:   make(map[Mode]bool),
	}
}

// Broker returns the broker transcript events are published on
func (m *Manager) Broker() *pubsub.Broker[Message] {
	return m.broker
}

// Transcript returns the displayed messages store
func (m *Manager) Transcript() *Transcript {
	return m.transcript
}

// Modes returns the configured mode identifiers
func (m *Manager) Modes() []Mode {
	out := make([]Mode, 0, len(m.modes))
	for _, mode := range []Mode{ModeGeneral, ModeCDC, ModeCF88} {
		if _, ok := m.modes[mode]; ok {
			out = append(out, mode)
		}
	}
	return out
}

// systemInstruction prefixes the base instruction of mode with the
// retrieval preamble when the mode has context
func (m *Manager) systemInstruction(mode Mode) (string, error) {
	mc, ok := m.modes[mode]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	ctx := m.source.RetrievalContext(mode)
	if ctx.Empty() {
		return mc.BaseInstruction, nil
	}

	serialized, err := ctx.Serialize()
	if err != nil {
		return "", err
	}
	preamble, err := m.prompts.RAGPreamble(serialized)
	if err != nil {
		return "", err
	}
	return preamble + "\n" + mc.BaseInstruction, nil
}

// GetOrCreateSession returns the current session of mode, creating it with an
// empty history on first use
func (m *Manager) GetOrCreateSession(mode Mode) (*Session, error) {
	if s, ok := m.session(mode); ok {
		return s, nil
	}

	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()
	if s, ok := m.session(mode); ok {
		return s, nil
	}

	instruction, err := m.systemInstruction(mode)
	if err != nil {
		return nil, err
	}

	s := NewSession(mode, instruction)
	m.mu.Lock()
	m.sessions[mode] = s
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("mode", string(mode)))
	return s, nil
}

// OnContextChanged rebuilds the session of mode, if any, with a fresh system
// instruction and the same history
func (m *Manager) OnContextChanged(mode Mode) error {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()
	if _, ok := m.session(mode); !ok {
		return nil
	}

	instruction, err := m.systemInstruction(mode)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[mode]; ok {
		m.sessions[mode] = Rebuild(old, instruction)
		m.logger.Info("session rebuilt",
			zap.String("mode", string(mode)),
			zap.Int("turns", old.Len()))
	}
	return nil
}

func (m *Manager) session(mode Mode) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[mode]
	return s, ok
}

// ResetSession drops the session and the transcript of mode
func (m *Manager) ResetSession(mode Mode) {
	m.mu.Lock()
	delete(m.sessions, mode)
	m.mu.Unlock()

	m.transcript.Clear(mode)
	m.publishWait(pubsub.DeletedEvent, Message{Mode: mode})
}

// ClearTranscript empties the displayed messages of mode. The session and
// its history are kept.
func (m *Manager) ClearTranscript(mode Mode) {
	m.transcript.Clear(mode)
	m.publishWait(pubsub.DeletedEvent, Message{Mode: mode})
}

// Notify shows a system notice in the transcript of mode
func (m *Manager) Notify(mode Mode, text string) Message {
	msg := NewMessage(mode, llm.RoleSystem, text)
	m.transcript.Put(msg)
	m.broker.Publish(pubsub.CreatedEvent, msg)
	return msg
}

// LastAssistantReply returns the text of the latest completed assistant
// message of mode
func (m *Manager) LastAssistantReply(mode Mode) (string, bool) {
	msgs := m.transcript.List(mode)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == llm.RoleAssistant && !msgs[i].Pending && msgs[i].Text != "" {
			return msgs[i].Text, true
		}
	}
	return "", false
}

// SendUserTurn sends text in mode and streams the answer through the broker.
// It returns the final assistant message, or the system message that
// replaced it together with a *SendError.
func (m *Manager) SendUserTurn(ctx context.Context, mode Mode, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	mc, ok := m.modes[mode]
	if !ok {
		return Message{}, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	m.mu.Lock()
	if m.inFlight[mode] {
		m.mu.Unlock()
		return Message{}, ErrSendInProgress
	}
	m.inFlight[mode] = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.inFlight, mode)
		m.mu.Unlock()
	}()

	session, err := m.GetOrCreateSession(mode)
	if err != nil {
		return Message{}, err
	}

	userMsg := NewMessage(mode, llm.RoleUser, text)
	m.transcript.Put(userMsg)
	m.broker.Publish(pubsub.CreatedEvent, userMsg)

	placeholder := NewMessage(mode, llm.RoleAssistant, "")
	placeholder.Pending = true
	m.transcript.Put(placeholder)
	m.broker.Publish(pubsub.CreatedEvent, placeholder)

	req := &llm.Request{
		Model:             mc.Model,
		SystemInstruction: session.SystemInstruction(),
		History:           session.History(),
		Prompt:            text,
	}

	reply, err := foldStream(m.client.GenerateStream(ctx, req), func(r Reply) {
		update := placeholder
		update.Text = r.Display()
		m.broker.Publish(pubsub.UpdatedEvent, update)
	})
	if err != nil {
		sendErr := NewSendError(err)
		m.logger.Error("chat send failed",
			zap.String("mode", string(mode)),
			zap.Stringer("kind", sendErr.Kind),
			zap.Error(err))

		failed := placeholder
		failed.Sender = llm.RoleSystem
		failed.Text = sendErr.UserMessage()
		failed.Pending = false
		m.transcript.Put(failed)
		m.publishWait(pubsub.UpdatedEvent, failed)
		m.publishWait(pubsub.FinishedEvent, failed)
		return failed, sendErr
	}

	turns := []llm.Turn{{Role: llm.RoleUser, Text: text}}
	if reply.Raw != "" {
		turns = append(turns, llm.Turn{Role: llm.RoleAssistant, Text: reply.Raw})
	}
	// The session may have been rebuilt while streaming; append to the current
	// one. A reset session stays empty.
	m.mu.Lock()
	if current, ok := m.sessions[mode]; ok {
		m.sessions[mode] = current.withTurns(turns...)
	}
	m.mu.Unlock()

	final := placeholder
	final.Text = reply.Final()
	final.Sources = reply.References
	final.Pending = false
	m.transcript.Put(final)
	m.publishWait(pubsub.UpdatedEvent, final)
	m.publishWait(pubsub.FinishedEvent, final)
	return final.clone(), nil
}

func (m *Manager) publishWait(t pubsub.EventType, msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), terminalEventTimeout)
	defer cancel()
	if err := m.broker.PublishWait(ctx, t, msg); err != nil {
		m.logger.Warn("subscriber missed a chat event", zap.String("event", string(t)), zap.Error(err))
	}
}
