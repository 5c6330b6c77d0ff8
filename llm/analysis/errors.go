package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrPrimaryAnalysisFailed is matched by every PrimaryAnalysisError
	ErrPrimaryAnalysisFailed = errors.New("primary analysis failed")
	// ErrMissingComparisonInput is returned before any model call when a side is empty
	ErrMissingComparisonInput = errors.New("both documents are required for a comparison")
	// ErrNoTextToAnalyze is returned for documents whose text is empty
	ErrNoTextToAnalyze = errors.New("no text to analyze")
)

// PrimaryAnalysisError reports a failed first stage, labeled with its task
type PrimaryAnalysisError struct {
	Label string
	Err   error
}

func (e *PrimaryAnalysisError) Error() string {
	return fmt.Sprintf("primary analysis of the %s failed: %v", e.Label, e.Err)
}

func (e *PrimaryAnalysisError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPrimaryAnalysisFailed
func (e *PrimaryAnalysisError) Is(target error) bool {
	return target == ErrPrimaryAnalysisFailed
}
