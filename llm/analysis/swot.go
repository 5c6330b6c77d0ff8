package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"legal-assistant/document"
	"legal-assistant/llm/textclean"
)

type section int

const (
	noSection section = iota
	strengthsSection
	weaknessesSection
	opportunitiesSection
	threatsSection
)

type sectionHeader struct {
	section section
	label   string
}

// swotHeaders are matched case-insensitively at the start of a line
var swotHeaders = []sectionHeader{
	{strengthsSection, "strengths"},
	{strengthsSection, "forças"},
	{strengthsSection, "forcas"},
	{weaknessesSection, "weaknesses"},
	{weaknessesSection, "fraquezas"},
	{opportunitiesSection, "opportunities"},
	{opportunitiesSection, "oportunidades"},
	{threatsSection, "threats"},
	{threatsSection, "ameaças"},
	{threatsSection, "ameacas"},
}

// ParseSWOT splits model output into the four quadrants. Lines before the
// first header are dropped, text after a header on the same line belongs to
// that section, and each section is cleaned and trimmed. A missing section
// stays empty.
func ParseSWOT(text string) document.SWOT {
	var sections [threatsSection + 1][]string
	current := noSection

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if sec, rest, ok := matchHeader(trimmed); ok {
			current = sec
			if rest != "" {
				sections[current] = append(sections[current], rest)
			}
			continue
		}

		if current != noSection && trimmed != "" {
			sections[current] = append(sections[current], trimmed)
		}
	}

	finish := func(lines []string) string {
		return strings.TrimSpace(textclean.Clean(strings.Join(lines, "\n")))
	}
	return document.SWOT{
		Strengths:     finish(sections[strengthsSection]),
		Weaknesses:    finish(sections[weaknessesSection]),
		Opportunities: finish(sections[opportunitiesSection]),
		Threats:       finish(sections[threatsSection]),
	}
}

// matchHeader recognizes "Strengths", "Strengths:", "**Strengths:** text",
// "## Forças" and similar. The label must be followed by nothing, a colon or
// a dash so that a sentence starting with the word stays body text.
func matchHeader(line string) (section, string, bool) {
	stripped := strings.TrimLeft(line, "#*_-+> \t")
	lower := strings.ToLower(stripped)

	for _, h := range swotHeaders {
		if !strings.HasPrefix(lower, h.label) {
			continue
		}

		// Lowercasing keeps the byte length of these labels, so the offset
		// carries over to the original string.
		rest := stripped[len(h.label):]
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}

		rest = strings.TrimLeft(rest, "*_ \t")
		switch {
		case rest == "":
			return h.section, "", true
		case strings.HasPrefix(rest, ":"), strings.HasPrefix(rest, "-"), strings.HasPrefix(rest, "–"):
			return h.section, strings.TrimSpace(strings.TrimLeft(rest, ":-–*_ \t")), true
		}
	}
	return noSection, "", false
}
