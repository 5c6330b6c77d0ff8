// Package agent manages one chat session per mode and streams replies.
package agent

import (
	"legal-assistant/llm"
)

// Mode identifies a conversational mode
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeCDC     Mode = "cdc"
	ModeCF88    Mode = "cf88"
)

// ModeConfig is the fixed setup of a mode
type ModeConfig struct {
	Mode            Mode
	Model           string
	BaseInstruction string
}

// Session is an immutable snapshot of a conversation. Every change produces
// a new Session; callers swap the reference they hold.
type Session struct {
	mode              Mode
	systemInstruction string
	history           []llm.Turn
}

// NewSession creates a session with an empty history
func NewSession(mode Mode, systemInstruction string) *Session {
	return &Session{mode: mode, systemInstruction: systemInstruction}
}

// Rebuild returns a session for the same mode with a new system instruction
// and the history of old carried over unchanged
func Rebuild(old *Session, systemInstruction string) *Session {
	return &Session{
		mode:              old.mode,
		systemInstruction: systemInstruction,
		history:           llm.CloneTurns(old.history),
	}
}

// Mode returns the session mode
func (s *Session) Mode() Mode { return s.mode }

// SystemInstruction returns the instruction in effect
func (s *Session) SystemInstruction() string { return s.systemInstruction }

// History returns a copy of the turns so far
func (s *Session) History() []llm.Turn { return llm.CloneTurns(s.history) }

// Len returns the number of turns
func (s *Session) Len() int { return len(s.history) }

func (s *Session) withTurns(turns ...llm.Turn) *Session {
	history := make([]llm.Turn, 0, len(s.history)+len(turns))
	history = append(history, s.history...)
	history = append(history, turns...)
	return &Session{
		mode:              s.mode,
		systemInstruction: s.systemInstruction,
		history:           history,
	}
}
