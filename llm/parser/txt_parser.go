package parser

import (
	"context"
	"strings"
	"unicode/utf8"
)

// TxtParser handles plain text and JSON files. JSON is kept as text.
type TxtParser struct{}

// NewTxtParser creates a new plain text parser
func NewTxtParser() *TxtParser {
	return &TxtParser{}
}

// Parse returns the bytes as UTF-8 text
func (p *TxtParser) Parse(_ context.Context, data []byte) (string, error) {
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	return strings.TrimPrefix(content, "\uFEFF"), nil
}

// MIMETypes returns the types this parser handles
func (p *TxtParser) MIMETypes() []string {
	return []string{MIMETypeText, MIMETypeJSON}
}
