package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"legal-assistant/llm/prompts"

	"go.uber.org/zap"
)

// SummarizedSuffix marks a comparison side that was replaced by its summary
const SummarizedSuffix = " (summarized)"

// ComparisonRequest pairs the two texts to compare
type ComparisonRequest struct {
	SourceA Source
	SourceB Source
}

// ComparisonResult is the reviewed comparison with the names actually used
type ComparisonResult struct {
	Text  string
	NameA string
	NameB string
}

// Comparator compares two texts, summarizing oversized sides first
type Comparator struct {
	analyzer *Analyzer
	logger   *zap.Logger
}

// NewComparator creates a comparator on top of analyzer
func NewComparator(analyzer *Analyzer, logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{analyzer: analyzer, logger: logger.Named("comparison")}
}

// Compare runs the comparison pipeline. Summaries computed for one side are
// not kept when a later step fails.
func (c *Comparator) Compare(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	switch {
	case strings.TrimSpace(req.SourceA.Text) == "":
		return nil, fmt.Errorf("%w: document A has no text", ErrMissingComparisonInput)
	case strings.TrimSpace(req.SourceB.Text) == "":
		return nil, fmt.Errorf("%w: document B has no text", ErrMissingComparisonInput)
	}

	left, err := c.prepare(ctx, req.SourceA)
	if err != nil {
		return nil, err
	}
	right, err := c.prepare(ctx, req.SourceB)
	if err != nil {
		return nil, err
	}

	text, err := c.analyzer.Run(ctx, Task{
		Kind:  TaskCompare,
		Label: prompts.LabelComparison,
		Left:  left,
		Right: right,
	})
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	c.logger.Info("comparison finished",
		zap.String("name_a", left.Name),
		zap.String("name_b", right.Name))

	return &ComparisonResult{Text: text, NameA: left.Name, NameB: right.Name}, nil
}

// prepare replaces a side longer than the comparison threshold by its summary
func (c *Comparator) prepare(ctx context.Context, src Source) (Source, error) {
	threshold := c.analyzer.cfg.ComparisonSummaryThreshold
	if utf8.RuneCountInString(src.Text) <= threshold {
		return src, nil
	}

	summary, err := c.analyzer.Run(ctx, Task{
		Kind:  TaskSummarize,
		Label: fmt.Sprintf("%s of %s", prompts.LabelSummary, src.Name),
		Input: src.Text,
	})
	if err != nil {
		return Source{}, fmt.Errorf("failed to summarize %s for comparison: %w", src.Name, err)
	}
	return Source{Name: src.Name + SummarizedSuffix, Text: summary}, nil
}
