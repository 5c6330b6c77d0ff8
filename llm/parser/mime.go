package parser

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMETypePDF   = "application/pdf"
	MIMETypeText  = "text/plain"
	MIMETypeJSON  = "application/json"
	mimeTypeOctet = "application/octet-stream"
)

// NormalizeMIMEType lowercases a MIME type and drops its parameters
func NormalizeMIMEType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// ResolveMIMEType trusts a specific declared type and sniffs the content otherwise
func ResolveMIMEType(data []byte, declared string) string {
	normalized := NormalizeMIMEType(declared)
	if normalized != "" && normalized != mimeTypeOctet {
		return normalized
	}
	if len(data) == 0 {
		return normalized
	}
	return NormalizeMIMEType(mimetype.Detect(data).String())
}

// MIMETypeFromPath guesses a MIME type from a file extension, falling back to
// content sniffing
func MIMETypeFromPath(path string, data []byte) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		if byExt := mime.TypeByExtension(strings.ToLower(path[idx:])); byExt != "" {
			return NormalizeMIMEType(byExt)
		}
	}
	return ResolveMIMEType(data, "")
}
