// Package assistant wires documents, analysis, chat and corpora into the
// operations offered by the command line and the terminal UI.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"legal-assistant/config"
	"legal-assistant/corpus"
	"legal-assistant/datajud"
	"legal-assistant/document"
	"legal-assistant/export"
	"legal-assistant/llm"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/analysis"
	"legal-assistant/llm/parser"
	"legal-assistant/llm/prompts"
	"legal-assistant/llm/rag"
	"legal-assistant/pubsub"

	"go.uber.org/zap"
)

// ErrCorpusNotReady is returned when chatting in a corpus mode whose corpus
// is loading or failed to load
var ErrCorpusNotReady = errors.New("the corpus of this mode is not available")

// Deps are the collaborators of an Assistant. Nil fields get defaults,
// except Client which is required.
type Deps struct {
	Client   llm.Client
	Prompts  *prompts.Library
	Registry *parser.Registry
	Cache    corpus.Cache
	Broker   *pubsub.Broker[agent.Message]
	Logger   *zap.Logger
}

// Assistant is the application controller. It owns the document store, the
// retrieval context of every mode and the current mode.
type Assistant struct {
	cfg        *config.Config
	store      *document.Store
	registry   *parser.Registry
	documents  *analysis.DocumentAnalyzer
	comparator *analysis.Comparator
	chat       *agent.Manager
	loader     *corpus.Loader
	datajud    *datajud.Client
	logger     *zap.Logger

	// refreshMu orders store snapshots with the context built from them
	refreshMu sync.Mutex

	mu             sync.RWMutex
	mode           agent.Mode
	contexts       map[agent.Mode]rag.Context
	corpora        map[agent.Mode]*corpusState
	lastComparison *analysis.ComparisonResult
}

// New builds an Assistant from cfg and deps
func New(cfg *config.Config, deps Deps) (*Assistant, error) {
	if deps.Client == nil {
		return nil, errors.New("an llm client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lib := deps.Prompts
	if lib == nil {
		var err error
		if lib, err = prompts.Load(); err != nil {
			return nil, err
		}
	}
	registry := deps.Registry
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	cache := deps.Cache
	if cache == nil {
		cache = corpus.NoopCache{}
	}

	a := &Assistant{
		cfg:      cfg,
		store:    document.NewStore(),
		registry: registry,
		loader:   corpus.NewLoader(cfg.FetchTimeout, registry, cache, logger),
		datajud:  datajud.NewClient(cfg.DataJud.Endpoint, cfg.DataJud.APIKey, cfg.FetchTimeout, logger),
		logger:   logger.Named("assistant"),
		mode:     agent.ModeGeneral,
		contexts: make(map[agent.Mode]rag.Context),
		corpora:  make(map[agent.Mode]*corpusState),
	}

	modes, err := modeConfigs(cfg, lib)
	if err != nil {
		return nil, err
	}
	a.chat = agent.NewManager(deps.Client, lib, modes, a, deps.Broker, logger)

	analyzer := analysis.NewAnalyzer(deps.Client, lib, analysis.Config{
		Model:                      cfg.LLM.AnalysisModel,
		LongDocumentThreshold:      cfg.Analysis.LongDocumentThreshold,
		SummaryInputCeiling:        cfg.Analysis.SummaryInputCeiling,
		ComparisonSummaryThreshold: cfg.Analysis.ComparisonSummaryThreshold,
	}, analysis.NotifierFunc(a.notifyAnalysis), logger)
	a.documents = analysis.NewDocumentAnalyzer(analyzer, a.store, logger)
	a.comparator = analysis.NewComparator(analyzer, logger)

	return a, nil
}

// modeConfigs derives the general mode and one mode per configured corpus
func modeConfigs(cfg *config.Config, lib *prompts.Library) ([]agent.ModeConfig, error) {
	general, err := lib.MasterReviewer()
	if err != nil {
		return nil, err
	}
	modes := []agent.ModeConfig{{Mode: agent.ModeGeneral, Model: cfg.LLM.ChatModel, BaseInstruction: general}}

	for _, c := range cfg.Corpora {
		instruction, err := lib.CorpusInstruction(c.Name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, agent.ModeConfig{
			Mode:            agent.Mode(c.Mode),
			Model:           cfg.LLM.CorpusChatModel,
			BaseInstruction: instruction,
		})
	}
	return modes, nil
}

// Chat returns the session manager; its broker carries every transcript change
func (a *Assistant) Chat() *agent.Manager {
	return a.chat
}

// Mode returns the current chat mode
func (a *Assistant) Mode() agent.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// Documents returns copies of the current documents in selection order
func (a *Assistant) Documents() []*document.Document {
	return a.store.List()
}

// Document returns a copy of one document
func (a *Assistant) Document(id string) (*document.Document, error) {
	return a.store.Get(id)
}

// RetrievalContext implements agent.ContextSource
func (a *Assistant) RetrievalContext(mode agent.Mode) rag.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.contexts[mode]
}

// setContext replaces the retrieval context of mode and rebuilds its session
func (a *Assistant) setContext(mode agent.Mode, ctx rag.Context) error {
	a.mu.Lock()
	if ctx.Empty() {
		delete(a.contexts, mode)
	} else {
		a.contexts[mode] = ctx
	}
	a.mu.Unlock()
	return a.chat.OnContextChanged(mode)
}

// refreshGeneralContext rebuilds the general context from the document store
func (a *Assistant) refreshGeneralContext() error {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()
	return a.setContext(agent.ModeGeneral, rag.Build(a.store.List(), a.cfg.Analysis.RAGContentCap))
}

// notify shows a notice in the transcript of the current mode
func (a *Assistant) notify(text string) {
	a.chat.Notify(a.Mode(), text)
}

func (a *Assistant) notifyAnalysis(_ context.Context, message string) {
	a.notify(message)
}

// Send sends a user turn in the current mode
func (a *Assistant) Send(ctx context.Context, text string) (agent.Message, error) {
	mode := a.Mode()
	if err := a.corpusReady(mode); err != nil {
		return agent.Message{}, err
	}
	return a.chat.SendUserTurn(ctx, mode, text)
}

// AnalyzeDocument runs the analysis pipeline on one document and refreshes
// the general context with whatever results were produced
func (a *Assistant) AnalyzeDocument(ctx context.Context, id string) error {
	doc, err := a.store.Get(id)
	if err != nil {
		return err
	}

	err = a.documents.Analyze(ctx, id)
	if refreshErr := a.refreshGeneralContext(); refreshErr != nil {
		a.logger.Warn("failed to refresh context after analysis", zap.Error(refreshErr))
	}
	if err != nil {
		a.notify(fmt.Sprintf("Analysis of %q failed: %v", doc.Name, err))
		return err
	}
	a.notify(fmt.Sprintf("Analysis of %q finished.", doc.Name))
	return nil
}

// ExportCSV writes the analyses of every document to w
func (a *Assistant) ExportCSV(w io.Writer) error {
	return export.WriteCSV(w, a.store.List())
}

// ExportCSVFile writes the analyses to a new CSV file at path. A failed
// close is reported since it can lose buffered rows.
func (a *Assistant) ExportCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := a.ExportCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SearchProcess looks a court process up in DataJud
func (a *Assistant) SearchProcess(ctx context.Context, number string) (*datajud.SearchResult, error) {
	return a.datajud.SearchProcess(ctx, number)
}
