package analysis

import (
	"context"
	"fmt"
	"unicode/utf8"

	"legal-assistant/document"
	"legal-assistant/llm/prompts"

	"go.uber.org/zap"
)

// DocumentAnalyzer produces summary, insights and SWOT for stored documents
type DocumentAnalyzer struct {
	analyzer *Analyzer
	store    *document.Store
	logger   *zap.Logger
}

// NewDocumentAnalyzer creates an orchestrator writing results into store
func NewDocumentAnalyzer(analyzer *Analyzer, store *document.Store, logger *zap.Logger) *DocumentAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentAnalyzer{
		analyzer: analyzer,
		store:    store,
		logger:   logger.Named("document-analysis"),
	}
}

// Analyze runs summary, insights and SWOT in order for the document with id.
// Each result is stored as soon as its stage completes; a failing stage stops
// the run and records AnalysisError without discarding earlier results.
func (d *DocumentAnalyzer) Analyze(ctx context.Context, id string) error {
	doc, err := d.store.Get(id)
	if err != nil {
		return err
	}

	if doc.Text == "" {
		d.store.Update(id, func(doc *document.Document) {
			doc.AnalysisInProgress = false
			doc.AnalysisError = ErrNoTextToAnalyze.Error()
		})
		return ErrNoTextToAnalyze
	}

	d.store.Update(id, func(doc *document.Document) {
		doc.AnalysisInProgress = true
		doc.AnalysisError = ""
	})
	defer d.store.Update(id, func(doc *document.Document) {
		doc.AnalysisInProgress = false
	})

	log := d.logger.With(zap.String("document_id", id), zap.String("document", doc.Name))
	log.Info("document analysis started", zap.Int("chars", utf8.RuneCountInString(doc.Text)))

	if err := d.run(ctx, id, doc.Text); err != nil {
		log.Warn("document analysis failed", zap.Error(err))
		d.store.Update(id, func(doc *document.Document) {
			doc.AnalysisError = fmt.Sprintf("analysis failed: %v", err)
		})
		return err
	}

	log.Info("document analysis finished")
	return nil
}

func (d *DocumentAnalyzer) run(ctx context.Context, id, text string) error {
	summary, err := d.analyzer.Run(ctx, Task{
		Kind:  TaskSummarize,
		Label: prompts.LabelSummary,
		Input: text,
	})
	if err != nil {
		return err
	}
	d.store.Update(id, func(doc *document.Document) { doc.Summary = summary })

	input := d.analysisInput(text, summary)

	insights, err := d.analyzer.Run(ctx, Task{
		Kind:    TaskInsights,
		Label:   prompts.LabelInsights,
		Input:   input,
		Summary: summary,
	})
	if err != nil {
		return err
	}
	d.store.Update(id, func(doc *document.Document) { doc.Insights = insights })

	swotText, err := d.analyzer.Run(ctx, Task{
		Kind:     TaskSWOT,
		Label:    prompts.LabelSWOT,
		Input:    input,
		Summary:  summary,
		Insights: insights,
	})
	if err != nil {
		return err
	}
	swot := ParseSWOT(swotText)
	d.store.Update(id, func(doc *document.Document) { doc.SWOT = &swot })
	return nil
}

// analysisInput is the summary for long documents that produced one and the
// original text otherwise
func (d *DocumentAnalyzer) analysisInput(text, summary string) string {
	if summary != "" && utf8.RuneCountInString(text) > d.analyzer.cfg.LongDocumentThreshold {
		return summary
	}
	return text
}
