package llm

import (
	"context"
	"iter"
)

// Role identifies who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one entry of a conversation history
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Reference is a grounding citation attached to a model answer
type Reference struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Request describes a single model invocation.
// History is sent before Prompt, which always goes out as the final user turn.
type Request struct {
	Model             string
	SystemInstruction string
	History           []Turn
	Prompt            string
}

// Response is the result of a single-shot generation
type Response struct {
	Text       string
	References []Reference
}

// Chunk is one piece of a streamed answer
type Chunk struct {
	TextDelta  string
	References []Reference
}

// Client is the generative model capability used by the orchestrators.
// Implementations apply the fixed safety configuration on every call.
type Client interface {
	// Generate performs a single request/response call
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GenerateStream returns a lazy sequence of chunks. The sequence can be
	// ranged over once; a non-nil error ends it.
	GenerateStream(ctx context.Context, req *Request) iter.Seq2[*Chunk, error]
}

// CloneTurns returns a copy of turns that shares no backing array
func CloneTurns(turns []Turn) []Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
