// Package prompts renders the prompt templates sent to the model.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Labels used by the analysis pipeline in notices and review prompts
const (
	LabelSummary    = "summary"
	LabelInsights   = "key insights"
	LabelSWOT       = "SWOT analysis"
	LabelComparison = "document comparison"
)

// Library holds the parsed templates
type Library struct {
	tmpl *template.Template
}

// Load parses every embedded template
func Load() (*Library, error) {
	tmpl, err := template.New("prompts").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return &Library{tmpl: tmpl}, nil
}

// MustLoad is Load for package initialization; the templates are embedded so
// a failure is a programming error.
func MustLoad() *Library {
	lib, err := Load()
	if err != nil {
		panic(err)
	}
	return lib
}

func (l *Library) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// Summarize asks for a summary of text
func (l *Library) Summarize(text string) (string, error) {
	return l.render("summarize.tmpl", map[string]any{"Text": text})
}

// Insights asks for key insights; summary may be empty
func (l *Library) Insights(text, summary string) (string, error) {
	return l.render("insights.tmpl", map[string]any{"Text": text, "Summary": summary})
}

// SWOT asks for a four-section SWOT analysis. summary and insights may be empty.
func (l *Library) SWOT(text, summary, insights string) (string, error) {
	return l.render("swot.tmpl", map[string]any{"Text": text, "Summary": summary, "Insights": insights})
}

// Comparison asks for a comparison of two named texts
func (l *Library) Comparison(nameA, textA, nameB, textB string) (string, error) {
	return l.render("comparison.tmpl", map[string]any{
		"NameA": nameA,
		"TextA": textA,
		"NameB": nameB,
		"TextB": textB,
	})
}

// Review asks the master reviewer to refine a stage-one output
func (l *Library) Review(output, label string) (string, error) {
	return l.render("review.tmpl", map[string]any{"Output": output, "Label": label})
}

// RAGPreamble wraps a serialized retrieval context as a system instruction block
func (l *Library) RAGPreamble(serializedContext string) (string, error) {
	return l.render("rag_preamble.tmpl", map[string]any{"Context": serializedContext})
}

// MasterReviewer is the system instruction of the review stage and of general chat
func (l *Library) MasterReviewer() (string, error) {
	return l.render("master_reviewer.tmpl", nil)
}

// CorpusInstruction is the system instruction of a corpus-backed chat mode
func (l *Library) CorpusInstruction(corpusName string) (string, error) {
	return l.render("corpus_instruction.tmpl", map[string]any{"Name": corpusName})
}
