// Package textclean strips markdown artifacts from model output before display.
package textclean

import (
	"regexp"
	"strings"
)

var (
	outerFence    = regexp.MustCompile("(?s)^```[\\w-]*[ \\t]*\\n?(.*?)\\n?[ \\t]*```$")
	leadingFence  = regexp.MustCompile("^```[\\w-]*[ \\t]*\\n?")
	trailingFence = regexp.MustCompile("\\n?[ \\t]*```$")

	bulletMarker = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberMarker = regexp.MustCompile(`(?m)^[ \t]*\d{1,2}\.[ \t]+`)

	boldStars        = regexp.MustCompile(`\*\*(\S(?:[^\n]*?\S)?)\*\*`)
	boldUnderscores  = regexp.MustCompile(`__(\S(?:[^\n]*?\S)?)__`)
	italicStar       = regexp.MustCompile(`\*(\S(?:[^\n*]*?\S)?)\*`)
	italicUnderscore = regexp.MustCompile(`(^|[^\p{L}\p{N}_])_(\S(?:[^\n_]*?\S)?)_([^\p{L}\p{N}_]|$)`)
)

// Clean removes list markers, emphasis markers and code fences.
// Passes are repeated until the text stops changing, so Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	current := text
	for {
		next := cleanOnce(current)
		if next == current {
			return next
		}
		current = next
	}
}

// cleanOnce only ever removes characters, which bounds the loop in Clean.
func cleanOnce(text string) string {
	cleaned := strings.TrimSpace(text)

	if m := outerFence.FindStringSubmatch(cleaned); m != nil && strings.TrimSpace(m[1]) != "" {
		cleaned = strings.TrimSpace(m[1])
	}
	cleaned = leadingFence.ReplaceAllString(cleaned, "")
	cleaned = trailingFence.ReplaceAllString(cleaned, "")

	cleaned = bulletMarker.ReplaceAllString(cleaned, "")
	cleaned = numberMarker.ReplaceAllString(cleaned, "")

	cleaned = boldStars.ReplaceAllString(cleaned, "$1")
	cleaned = boldUnderscores.ReplaceAllString(cleaned, "$1")
	cleaned = italicStar.ReplaceAllString(cleaned, "$1")
	cleaned = italicUnderscore.ReplaceAllString(cleaned, "${1}${2}${3}")

	return strings.TrimSpace(cleaned)
}
