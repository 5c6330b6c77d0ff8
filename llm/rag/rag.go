// Package rag builds the retrieval context injected into chat system instructions.
package rag

import (
	"encoding/json"
	"fmt"

	"legal-assistant/document"
)

// DefaultContentCap bounds each entry's content, counted in characters
const DefaultContentCap = 20000

// Entry is one document in the retrieval context
type Entry struct {
	DocumentName string         `json:"documentName"`
	Content      string         `json:"content"`
	Summary      string         `json:"summary,omitempty"`
	Insights     string         `json:"insights,omitempty"`
	SWOT         *document.SWOT `json:"swot,omitempty"`
}

// Context is an ordered retrieval payload. A nil or empty Context means no
// document had text.
type Context []Entry

// Build creates the context from docs in input order. Documents without text
// are skipped and each content is capped at contentCap characters.
func Build(docs []*document.Document, contentCap int) Context {
	if contentCap <= 0 {
		contentCap = DefaultContentCap
	}

	var ctx Context
	for _, d := range docs {
		if d == nil || d.Text == "" {
			continue
		}

		entry := Entry{
			DocumentName: d.Name,
			Content:      Truncate(d.Text, contentCap),
			Summary:      d.Summary,
			Insights:     d.Insights,
		}
		if !d.SWOT.Empty() {
			swot := *d.SWOT
			entry.SWOT = &swot
		}
		ctx = append(ctx, entry)
	}
	return ctx
}

// Empty reports whether the context carries no entries
func (c Context) Empty() bool {
	return len(c) == 0
}

// Serialize renders the context as indented JSON for the chat preamble
func (c Context) Serialize() (string, error) {
	if c.Empty() {
		return "", nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize retrieval context: %w", err)
	}
	return string(data), nil
}

// Truncate returns at most limit characters of s without splitting a rune
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
