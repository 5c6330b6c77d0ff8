// Package parser turns uploaded file bytes into plain text.
package parser

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedFileType is matched by every UnsupportedFileTypeError
var ErrUnsupportedFileType = errors.New("unsupported file type")

// UnsupportedFileTypeError names the MIME type no extractor is registered for
type UnsupportedFileTypeError struct {
	MIMEType string
}

func (e *UnsupportedFileTypeError) Error() string {
	if e.MIMEType == "" {
		return "unsupported file type: unknown"
	}
	return fmt.Sprintf("unsupported file type: %s", e.MIMEType)
}

// Is reports whether target is ErrUnsupportedFileType
func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

// Parser defines the interface for text extractors
type Parser interface {
	// Parse extracts plain text from raw file bytes
	Parse(ctx context.Context, data []byte) (string, error)

	// MIMETypes returns the normalized MIME types this parser handles
	MIMETypes() []string
}

// Registry maps MIME types to parsers
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]Parser),
	}
}

// Register adds a parser for each MIME type it handles
func (r *Registry) Register(p Parser) {
	for _, mimeType := range p.MIMETypes() {
		r.parsers[NormalizeMIMEType(mimeType)] = p
	}
}

// GetParser returns the parser registered for mimeType
func (r *Registry) GetParser(mimeType string) (Parser, bool) {
	p, ok := r.parsers[NormalizeMIMEType(mimeType)]
	return p, ok
}

// Extract converts data declared as mimeType into plain text. An empty or
// generic declared type is replaced by the type sniffed from the content.
func (r *Registry) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	resolved := ResolveMIMEType(data, mimeType)

	p, ok := r.GetParser(resolved)
	if !ok {
		return "", &UnsupportedFileTypeError{MIMEType: resolved}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Parse(ctx, data)
}

// DefaultRegistry returns a registry for PDF, plain text and JSON
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewTxtParser())
	reg.Register(NewPDFParser())
	return reg
}
