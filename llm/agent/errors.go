package agent

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSendFailed is matched by every SendError
	ErrSendFailed = errors.New("chat send failed")
	// ErrSendInProgress is returned when a mode already has a send in flight
	ErrSendInProgress = errors.New("a message is already being answered in this mode")
	// ErrEmptyMessage is returned for blank user input
	ErrEmptyMessage = errors.New("message is empty")
	// ErrUnknownMode is returned for modes without a ModeConfig
	ErrUnknownMode = errors.New("unknown chat mode")
)

// SendErrorKind classifies a failed send
type SendErrorKind int

const (
	SendErrorGeneric SendErrorKind = iota
	SendErrorQuota
	SendErrorCredential
)

func (k SendErrorKind) String() string {
	switch k {
	case SendErrorQuota:
		return "quota"
	case SendErrorCredential:
		return "credential"
	default:
		return "generic"
	}
}

// SendError wraps a model failure during a chat send
type SendError struct {
	Kind SendErrorKind
	Err  error
}

// NewSendError classifies err by its message
func NewSendError(err error) *SendError {
	msg := strings.ToLower(err.Error())

	kind := SendErrorGeneric
	switch {
	case strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "quota exhausted"),
		strings.Contains(msg, "exceeded your current quota"):
		kind = SendErrorQuota
	case strings.Contains(msg, "api key not valid"), strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "api_key_invalid"):
		kind = SendErrorCredential
	}
	return &SendError{Kind: kind, Err: err}
}

func (e *SendError) Error() string {
	return fmt.Sprintf("chat send failed (%s): %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSendFailed
func (e *SendError) Is(target error) bool {
	return target == ErrSendFailed
}

// UserMessage is the text shown in place of the failed reply
func (e *SendError) UserMessage() string {
	switch e.Kind {
	case SendErrorQuota:
		return "The API usage quota has been exhausted. Wait a few minutes and try again, or check the plan and billing of your API key."
	case SendErrorCredential:
		return "The API key is missing or invalid. Set GEMINI_API_KEY to a valid key and restart the application."
	default:
		return fmt.Sprintf("Sorry, an error occurred while getting the answer: %v", e.Err)
	}
}
