// Package analysis runs the two-stage primary/review pipeline over documents
// and document pairs.
package analysis

import (
	"context"
	"fmt"
	"unicode/utf8"

	"legal-assistant/llm"
	"legal-assistant/llm/prompts"
	"legal-assistant/llm/rag"
	"legal-assistant/llm/textclean"

	"go.uber.org/zap"
)

// Stage is the pipeline step a model call belongs to
type Stage int

const (
	StagePrimary Stage = iota
	StageReview
)

func (s Stage) String() string {
	switch s {
	case StagePrimary:
		return "primary"
	case StageReview:
		return "review"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// TaskKind selects the primary prompt of a task
type TaskKind int

const (
	TaskSummarize TaskKind = iota
	TaskInsights
	TaskSWOT
	TaskCompare
)

func (k TaskKind) String() string {
	switch k {
	case TaskSummarize:
		return "summarize"
	case TaskInsights:
		return "insights"
	case TaskSWOT:
		return "swot"
	case TaskCompare:
		return "compare"
	default:
		return fmt.Sprintf("TaskKind(%d)", int(k))
	}
}

// defaultLabel is the human-readable name of a task kind
func (k TaskKind) defaultLabel() string {
	switch k {
	case TaskInsights:
		return prompts.LabelInsights
	case TaskSWOT:
		return prompts.LabelSWOT
	case TaskCompare:
		return prompts.LabelComparison
	default:
		return prompts.LabelSummary
	}
}

// Source is a named text taking part in a comparison
type Source struct {
	Name string
	Text string
}

// Task describes one pipeline invocation. Summary and Insights are optional
// context; Left and Right are only read by TaskCompare.
type Task struct {
	Kind     TaskKind
	Label    string
	Input    string
	Summary  string
	Insights string
	Left     Source
	Right    Source
}

func (t Task) label() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Kind.defaultLabel()
}

// Notifier receives user-facing progress notices
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, message string)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

// Config is the immutable pipeline configuration. Lengths are in characters.
type Config struct {
	Model                      string
	LongDocumentThreshold      int
	SummaryInputCeiling        int
	ComparisonSummaryThreshold int
}

// Analyzer runs a task through the primary stage and the master review
type Analyzer struct {
	client   llm.Client
	prompts  *prompts.Library
	cfg      Config
	notifier Notifier
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer. A nil notifier or logger discards output.
func NewAnalyzer(client llm.Client, lib *prompts.Library, cfg Config, notifier Notifier, logger *zap.Logger) *Analyzer {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ComparisonSummaryThreshold <= 0 {
		cfg.ComparisonSummaryThreshold = cfg.LongDocumentThreshold
	}
	return &Analyzer{
		client:   client,
		prompts:  lib,
		cfg:      cfg,
		notifier: notifier,
		logger:   logger.Named("analysis"),
	}
}

// Config returns the configuration the analyzer was built with
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Run executes the task and returns the cleaned, reviewed text. A failed
// review is not an error: the cleaned primary output is returned instead.
func (a *Analyzer) Run(ctx context.Context, task Task) (string, error) {
	label := task.label()

	prompt, err := a.primaryPrompt(ctx, task)
	if err != nil {
		return "", err
	}

	a.notifier.Notify(ctx, fmt.Sprintf("Performing primary %s...", label))
	raw, err := a.call(ctx, StagePrimary, label, prompt)
	if err != nil {
		return "", &PrimaryAnalysisError{Label: label, Err: err}
	}

	a.notifier.Notify(ctx, fmt.Sprintf("Refining %s with the master reviewer...", label))
	reviewed, err := a.review(ctx, label, raw)
	if err != nil {
		a.logger.Warn("review failed, using primary output",
			zap.String("label", label),
			zap.Error(err))
		a.notifier.Notify(ctx, fmt.Sprintf("The review of the %s failed (%v). Showing the unreviewed result.", label, err))
		return textclean.Clean(raw), nil
	}
	return textclean.Clean(reviewed), nil
}

func (a *Analyzer) primaryPrompt(ctx context.Context, task Task) (string, error) {
	switch task.Kind {
	case TaskSummarize:
		input := task.Input
		if n := utf8.RuneCountInString(input); a.cfg.SummaryInputCeiling > 0 && n > a.cfg.SummaryInputCeiling {
			input = rag.Truncate(input, a.cfg.SummaryInputCeiling)
			a.notifier.Notify(ctx, fmt.Sprintf(
				"The original document is very long (%d characters) and was truncated to %d characters before the initial summary.",
				n, a.cfg.SummaryInputCeiling))
		}
		return a.prompts.Summarize(input)
	case TaskInsights:
		return a.prompts.Insights(task.Input, task.Summary)
	case TaskSWOT:
		return a.prompts.SWOT(task.Input, task.Summary, task.Insights)
	case TaskCompare:
		return a.prompts.Comparison(task.Left.Name, task.Left.Text, task.Right.Name, task.Right.Text)
	default:
		return "", fmt.Errorf("unknown task kind %s", task.Kind)
	}
}

func (a *Analyzer) review(ctx context.Context, label, raw string) (string, error) {
	prompt, err := a.prompts.Review(raw, label)
	if err != nil {
		return "", err
	}
	return a.call(ctx, StageReview, label, prompt)
}

// call sends one stage. Only the review stage carries a system instruction.
func (a *Analyzer) call(ctx context.Context, stage Stage, label, prompt string) (string, error) {
	req := &llm.Request{
		Model:  a.cfg.Model,
		Prompt: prompt,
	}
	if stage == StageReview {
		instruction, err := a.prompts.MasterReviewer()
		if err != nil {
			return "", err
		}
		req.SystemInstruction = instruction
	}

	a.logger.Debug("calling model",
		zap.Stringer("stage", stage),
		zap.String("label", label),
		zap.String("model", req.Model),
		zap.Int("prompt_chars", utf8.RuneCountInString(prompt)))

	resp, err := a.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text, nil
}
