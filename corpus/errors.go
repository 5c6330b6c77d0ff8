package corpus

import (
	"errors"
	"fmt"
)

// ErrCorpusFetchFailed is matched by every FetchError
var ErrCorpusFetchFailed = errors.New("corpus fetch failed")

// FetchError reports why a corpus could not be loaded
type FetchError struct {
	Corpus string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Corpus, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorpusFetchFailed
func (e *FetchError) Is(target error) bool {
	return target == ErrCorpusFetchFailed
}
