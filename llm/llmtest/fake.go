// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"

	"legal-assistant/llm"
)

// ErrNoReply is returned when a call arrives after the script ran out
var ErrNoReply = errors.New("llmtest: no scripted reply")

// Reply scripts the outcome of one call. Chunks are used for streams; when
// empty, Text is streamed as a single chunk. Err is returned after the
// chunks have been yielded.
type Reply struct {
	Text       string
	References []llm.Reference
	Chunks     []llm.Chunk
	Err        error
}

// Client replays scripted replies in call order and records every request
type Client struct {
	mu        sync.Mutex
	replies   []Reply
	responder func(req *llm.Request) Reply
	calls     []llm.Request
}

// New creates a client answering calls with replies in order
func New(replies ...Reply) *Client {
	return &Client{replies: replies}
}

// WithResponder answers every call by invoking fn instead of the script
func (c *Client) WithResponder(fn func(req *llm.Request) Reply) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responder = fn
	return c
}

// Calls returns copies of the requests received so far
func (c *Client) Calls() []llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.Request(nil), c.calls...)
}

// CallCount returns how many requests were received
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *Client) next(req *llm.Request) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	recorded := *req
	recorded.History = llm.CloneTurns(req.History)
	c.calls = append(c.calls, recorded)

	if c.responder != nil {
		return c.responder(&recorded)
	}
	if len(c.replies) == 0 {
		return Reply{Err: ErrNoReply}
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r
}

// Generate implements llm.Client
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := c.next(req)
	if r.Err != nil {
		return nil, r.Err
	}

	text := r.Text
	if text == "" && len(r.Chunks) > 0 {
		var sb strings.Builder
		for _, chunk := range r.Chunks {
			sb.WriteString(chunk.TextDelta)
		}
		text = sb.String()
	}
	return &llm.Response{Text: text, References: r.References}, nil
}

// GenerateStream implements llm.Client. The request is recorded when the
// sequence is first ranged over.
func (c *Client) GenerateStream(ctx context.Context, req *llm.Request) iter.Seq2[*llm.Chunk, error] {
	return func(yield func(*llm.Chunk, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		r := c.next(req)

		chunks := r.Chunks
		if len(chunks) == 0 && (r.Text != "" || r.References != nil) {
			chunks = []llm.Chunk{{TextDelta: r.Text, References: r.References}}
		}
		for i := range chunks {
			chunk := chunks[i]
			if !yield(&chunk, nil) {
				return
			}
		}
		if r.Err != nil {
			yield(nil, r.Err)
		}
	}
}
