package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"legal-assistant/document"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/parser"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SelectFiles replaces the document set. The general context and transcript
// are cleared until the new files are processed; the conversation history
// carries over into the rebuilt session.
func (a *Assistant) SelectFiles(files []document.File) {
	docs := make([]*document.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, document.New(f))
	}

	a.refreshMu.Lock()
	a.store.Replace(docs)
	if err := a.setContext(agent.ModeGeneral, nil); err != nil {
		a.logger.Error("failed to rebuild general session", zap.Error(err))
	}
	a.refreshMu.Unlock()
	a.chat.ClearTranscript(agent.ModeGeneral)

	a.logger.Info("files selected", zap.Int("count", len(docs)))
}

// ReadFiles reads paths from disk into files, guessing each MIME type
func ReadFiles(paths []string) ([]document.File, error) {
	files := make([]document.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, document.File{
			Name:     filepath.Base(p),
			MIMEType: parser.MIMETypeFromPath(p, data),
			Data:     data,
		})
	}
	return files, nil
}

// LoadFiles reads paths and selects them as the new document set
func (a *Assistant) LoadFiles(paths []string) error {
	files, err := ReadFiles(paths)
	if err != nil {
		return err
	}
	a.SelectFiles(files)
	return nil
}

// ProcessFiles extracts the text of every selected document concurrently.
// A failing file records its error on its own document and never stops the
// others. It returns how many documents have text.
func (a *Assistant) ProcessFiles(ctx context.Context) (int, error) {
	docs := a.store.List()
	if len(docs) == 0 {
		return 0, nil
	}

	a.chat.Notify(agent.ModeGeneral, "Extracting text from the files...")

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.ExtractConcurrency)
	for _, doc := range docs {
		g.Go(func() error {
			a.extract(gCtx, doc)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ready := 0
	for _, doc := range a.store.List() {
		if doc.Text != "" {
			ready++
		}
	}

	switch {
	case ready == 0:
		a.chat.Notify(agent.ModeGeneral, "No text could be extracted from the files.")
	default:
		a.chat.Notify(agent.ModeGeneral, fmt.Sprintf("Text extraction finished. %d document(s) ready.", ready))
	}

	if err := a.refreshGeneralContext(); err != nil {
		return ready, err
	}
	return ready, nil
}

func (a *Assistant) extract(ctx context.Context, doc *document.Document) {
	text, err := a.registry.Extract(ctx, doc.File.Data, doc.File.MIMEType)
	if err != nil {
		a.logger.Warn("text extraction failed",
			zap.String("document", doc.Name),
			zap.String("mime_type", doc.File.MIMEType),
			zap.Error(err))
		a.chat.Notify(agent.ModeGeneral, fmt.Sprintf("Error processing %s: %v", doc.Name, err))
		a.store.Update(doc.ID, func(d *document.Document) {
			d.Text = ""
			d.AnalysisError = err.Error()
		})
		return
	}

	a.store.Update(doc.ID, func(d *document.Document) {
		d.Text = text
		d.AnalysisError = ""
		if text == "" {
			d.AnalysisError = "no content extracted"
		}
	})
}
