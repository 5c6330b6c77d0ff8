package renderer

import (
	"fmt"
	"strings"
)

// Truncate shortens s to maxLen runes, ending with an ellipsis
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 1 {
		return ""
	}
	return string(runes[:maxLen-1]) + "…"
}

// FormatBytes formats a byte count for humans
func FormatBytes(bytes int) string {
	const unit = 1024
	b := int64(bytes)
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// ShortenURL drops the scheme and www prefix and truncates long URLs
func ShortenURL(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")

	if len([]rune(url)) > 40 {
		return Truncate(url, 40)
	}
	return url
}
