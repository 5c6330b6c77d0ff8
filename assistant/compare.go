package assistant

import (
	"context"
	"fmt"

	"legal-assistant/document"
	"legal-assistant/llm/analysis"
)

// PreviousReplyName is the display name of the latest assistant reply when it
// is compared
const PreviousReplyName = "Previous reply"

// SourceA selects the first side of a comparison: a stored document, or the
// latest assistant reply of the current mode when DocumentID is empty
type SourceA struct {
	DocumentID string
}

// Compare compares source A with the uploaded file B
func (a *Assistant) Compare(ctx context.Context, sourceA SourceA, fileB document.File) (*analysis.ComparisonResult, error) {
	left, err := a.resolveSourceA(sourceA)
	if err != nil {
		return nil, err
	}

	var right analysis.Source
	if len(fileB.Data) > 0 {
		text, err := a.registry.Extract(ctx, fileB.Data, fileB.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", fileB.Name, err)
		}
		right = analysis.Source{Name: fileB.Name, Text: text}
	}

	result, err := a.comparator.Compare(ctx, analysis.ComparisonRequest{SourceA: left, SourceB: right})
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.lastComparison = result
	a.mu.Unlock()
	return result, nil
}

// LastComparison returns the latest successful comparison, if any
func (a *Assistant) LastComparison() (*analysis.ComparisonResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastComparison == nil {
		return nil, false
	}
	c := *a.lastComparison
	return &c, true
}

func (a *Assistant) resolveSourceA(src SourceA) (analysis.Source, error) {
	if src.DocumentID == "" {
		reply, _ := a.chat.LastAssistantReply(a.Mode())
		return analysis.Source{Name: PreviousReplyName, Text: reply}, nil
	}
	doc, err := a.store.Get(src.DocumentID)
	if err != nil {
		return analysis.Source{}, err
	}
	return analysis.Source{Name: doc.Name, Text: doc.Text}, nil
}
