package assistant

import (
	"context"
	"fmt"

	"legal-assistant/document"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/rag"

	"go.uber.org/zap"
)

// corpusState tracks the lazy load of one corpus mode
type corpusState struct {
	loading bool
	doc     *document.Document
	err     error
}

// SwitchMode makes mode current. A corpus mode loads its corpus on the first
// switch; after a failed load every later switch to it retries.
func (a *Assistant) SwitchMode(ctx context.Context, mode agent.Mode) error {
	if !a.knownMode(mode) {
		return fmt.Errorf("%w: %s", agent.ErrUnknownMode, mode)
	}

	a.mu.Lock()
	a.mode = mode
	a.mu.Unlock()

	if mode == agent.ModeGeneral {
		return nil
	}
	return a.loadCorpus(ctx, mode)
}

func (a *Assistant) knownMode(mode agent.Mode) bool {
	for _, m := range a.chat.Modes() {
		if m == mode {
			return true
		}
	}
	return false
}

func (a *Assistant) loadCorpus(ctx context.Context, mode agent.Mode) error {
	c, ok := a.cfg.CorpusFor(string(mode))
	if !ok {
		return fmt.Errorf("%w: %s", agent.ErrUnknownMode, mode)
	}

	a.mu.Lock()
	state := a.corpora[mode]
	if state == nil {
		state = &corpusState{}
		a.corpora[mode] = state
	}
	if state.loading || state.doc != nil {
		a.mu.Unlock()
		return nil
	}
	state.loading = true
	state.err = nil
	a.mu.Unlock()

	a.chat.Notify(mode, fmt.Sprintf("Downloading and processing the %s...", c.Name))
	doc, err := a.loader.Load(ctx, c)

	a.mu.Lock()
	state.loading = false
	if err != nil {
		state.err = err
		delete(a.contexts, mode)
		a.mu.Unlock()

		a.logger.Error("corpus load failed", zap.String("mode", string(mode)), zap.Error(err))
		a.chat.Notify(mode, fmt.Sprintf("Error loading the corpus: %v. Switch to this mode again to retry.", err))
		return err
	}
	state.doc = doc
	a.mu.Unlock()

	if err := a.setContext(mode, rag.Build([]*document.Document{doc}, a.cfg.Analysis.RAGContentCap)); err != nil {
		return err
	}
	a.chat.Notify(mode, fmt.Sprintf("Knowledge base of the %s loaded. Ask about it.", c.Name))
	return nil
}

// CorpusError returns the persistent load error of a corpus mode, if any
func (a *Assistant) CorpusError(mode agent.Mode) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if state := a.corpora[mode]; state != nil {
		return state.err
	}
	return nil
}

// corpusReady reports whether mode can be chatted in
func (a *Assistant) corpusReady(mode agent.Mode) error {
	if mode == agent.ModeGeneral {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	state := a.corpora[mode]
	switch {
	case state == nil:
		return fmt.Errorf("%w: not loaded yet", ErrCorpusNotReady)
	case state.loading:
		return fmt.Errorf("%w: still loading", ErrCorpusNotReady)
	case state.err != nil:
		return fmt.Errorf("%w: %v", ErrCorpusNotReady, state.err)
	default:
		return nil
	}
}
