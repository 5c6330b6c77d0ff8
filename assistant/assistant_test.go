package assistant

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"legal-assistant/config"
	"legal-assistant/corpus"
	"legal-assistant/document"
	"legal-assistant/llm"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/analysis"
	"legal-assistant/llm/llmtest"
	"legal-assistant/llm/parser"
	"legal-assistant/llm/parser/parsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cdcName = "Consumer Defense Code (CDC)"

func testConfig(corpusURL string) *config.Config {
	return &config.Config{
		LLM: config.LLM{
			ChatModel:       "chat-model",
			CorpusChatModel: "corpus-model",
			AnalysisModel:   "analysis-model",
		},
		Analysis: config.Analysis{
			LongDocumentThreshold:      8000,
			SummaryInputCeiling:        30000,
			ComparisonSummaryThreshold: 8000,
			RAGContentCap:              20000,
		},
		Corpora:            []config.Corpus{{Mode: "cdc", Name: cdcName, URL: corpusURL}},
		DataJud:            config.DataJud{Endpoint: "http://127.0.0.1:0/_search"},
		ExtractConcurrency: 2,
		FetchTimeout:       5 * time.Second,
	}
}

func newTestAssistant(t *testing.T, client llm.Client, corpusURL string) *Assistant {
	t.Helper()
	a, err := New(testConfig(corpusURL), Deps{Client: client})
	require.NoError(t, err)
	return a
}

func transcriptTexts(a *Assistant, mode agent.Mode) []string {
	var out []string
	for _, msg := range a.Chat().Transcript().List(mode) {
		out = append(out, msg.Text)
	}
	return out
}

func containsText(texts []string, substr string) bool {
	for _, text := range texts {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func sampleFiles() []document.File {
	return []document.File{
		{Name: "notes.txt", MIMEType: parser.MIMETypeText, Data: []byte("The lease ends in March.")},
		{Name: "contract.pdf", MIMEType: parser.MIMETypePDF, Data: parsertest.BuildPDF("Clause one", "Clause two")},
		{Name: "photo.png", MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
	}
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(testConfig(""), Deps{})
	assert.Error(t, err)
}

func TestProcessFiles_IsolatesFailures(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	a.SelectFiles(sampleFiles())

	ready, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ready)

	docs := a.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "The lease ends in March.", docs[0].Text)
	assert.Equal(t, "Clause one\nClause two", docs[1].Text)
	assert.Empty(t, docs[2].Text)
	assert.Contains(t, docs[2].AnalysisError, "image/png")

	ctx := a.RetrievalContext(agent.ModeGeneral)
	require.Len(t, ctx, 2)
	assert.Equal(t, "notes.txt", ctx[0].DocumentName)
	assert.Equal(t, "contract.pdf", ctx[1].DocumentName)

	texts := transcriptTexts(a, agent.ModeGeneral)
	assert.True(t, containsText(texts, "Error processing photo.png"))
	assert.True(t, containsText(texts, "2 document(s) ready"))
}

func TestProcessFiles_NothingExtracted(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	a.SelectFiles([]document.File{{Name: "photo.png", MIMEType: "image/png", Data: []byte{1}}})

	ready, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ready)
	assert.True(t, a.RetrievalContext(agent.ModeGeneral).Empty())
	assert.True(t, containsText(transcriptTexts(a, agent.ModeGeneral), "No text could be extracted"))
}

func TestSelectFiles_ClearsGeneralContext(t *testing.T) {
	client := llmtest.New(llmtest.Reply{Text: "first answer"}, llmtest.Reply{Text: "second answer"})
	a := newTestAssistant(t, client, "")
	a.SelectFiles(sampleFiles())
	_, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)
	require.False(t, a.RetrievalContext(agent.ModeGeneral).Empty())

	_, err = a.Send(context.Background(), "question one")
	require.NoError(t, err)

	a.SelectFiles(sampleFiles()[:1])
	assert.True(t, a.RetrievalContext(agent.ModeGeneral).Empty())
	assert.Empty(t, a.Chat().Transcript().List(agent.ModeGeneral))
	assert.Len(t, a.Documents(), 1)

	s, err := a.Chat().GetOrCreateSession(agent.ModeGeneral)
	require.NoError(t, err)
	assert.NotContains(t, s.SystemInstruction(), "contract.pdf")

	_, err = a.ProcessFiles(context.Background())
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "question two")
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []llm.Turn{
		{Role: llm.RoleUser, Text: "question one"},
		{Role: llm.RoleAssistant, Text: "first answer"},
	}, calls[1].History)
	assert.Contains(t, calls[1].SystemInstruction, "notes.txt")
	assert.NotContains(t, calls[1].SystemInstruction, "contract.pdf")
}

func TestSend_UsesDocumentContext(t *testing.T) {
	client := llmtest.New(llmtest.Reply{Text: "The lease ends in **March**."})
	a := newTestAssistant(t, client, "")
	a.SelectFiles(sampleFiles()[:1])
	_, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)

	msg, err := a.Send(context.Background(), "When does the lease end?")
	require.NoError(t, err)
	assert.Equal(t, "The lease ends in March.", msg.Text)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "chat-model", calls[0].Model)
	assert.Contains(t, calls[0].SystemInstruction, "DOCUMENTS:")
	assert.Contains(t, calls[0].SystemInstruction, "notes.txt")
	assert.Contains(t, calls[0].SystemInstruction, "Master Legal Reviewer")
}

func TestSwitchMode_CorpusFailureAndRetry(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	pdf := parsertest.BuildPDF("Art. 1 Consumer protection is of public order.")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer srv.Close()

	client := llmtest.New(llmtest.Reply{Text: "Article 1 says so."})
	a := newTestAssistant(t, client, srv.URL+"/cdc.pdf")

	err := a.SwitchMode(context.Background(), agent.ModeCDC)
	require.ErrorIs(t, err, corpus.ErrCorpusFetchFailed)
	assert.Equal(t, agent.ModeCDC, a.Mode())
	assert.Error(t, a.CorpusError(agent.ModeCDC))
	assert.True(t, a.RetrievalContext(agent.ModeCDC).Empty())

	_, err = a.Send(context.Background(), "What does article 1 say?")
	require.ErrorIs(t, err, ErrCorpusNotReady)
	assert.Zero(t, client.CallCount())

	failing.Store(false)
	require.NoError(t, a.SwitchMode(context.Background(), agent.ModeGeneral))
	require.NoError(t, a.SwitchMode(context.Background(), agent.ModeCDC))
	assert.NoError(t, a.CorpusError(agent.ModeCDC))

	ctx := a.RetrievalContext(agent.ModeCDC)
	require.Len(t, ctx, 1)
	assert.Equal(t, cdcName, ctx[0].DocumentName)

	_, err = a.Send(context.Background(), "What does article 1 say?")
	require.NoError(t, err)
	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "corpus-model", calls[0].Model)
	assert.Contains(t, calls[0].SystemInstruction, "specialized in the "+cdcName)
	assert.Contains(t, calls[0].SystemInstruction, "Art. 1 Consumer protection")

	texts := transcriptTexts(a, agent.ModeCDC)
	assert.True(t, containsText(texts, "Switch to this mode again to retry"))
	assert.True(t, containsText(texts, "loaded"))
}

func TestSwitchMode_Unknown(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	err := a.SwitchMode(context.Background(), agent.ModeCF88)
	assert.ErrorIs(t, err, agent.ErrUnknownMode)
	assert.Equal(t, agent.ModeGeneral, a.Mode())
}

func TestAnalyzeDocument_RefreshesContext(t *testing.T) {
	client := llmtest.New().WithResponder(func(*llm.Request) llmtest.Reply {
		return llmtest.Reply{Text: "Strengths: clear terms\nThreats: late fees"}
	})
	a := newTestAssistant(t, client, "")
	a.SelectFiles(sampleFiles()[:1])
	_, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)
	id := a.Documents()[0].ID

	require.NoError(t, a.AnalyzeDocument(context.Background(), id))

	doc, err := a.Document(id)
	require.NoError(t, err)
	require.NotNil(t, doc.SWOT)
	assert.Equal(t, "clear terms", doc.SWOT.Strengths)
	assert.Equal(t, "late fees", doc.SWOT.Threats)
	assert.False(t, doc.AnalysisInProgress)

	ctx := a.RetrievalContext(agent.ModeGeneral)
	require.Len(t, ctx, 1)
	assert.NotEmpty(t, ctx[0].Summary)
	assert.NotNil(t, ctx[0].SWOT)
	assert.True(t, containsText(transcriptTexts(a, agent.ModeGeneral), `Analysis of "notes.txt" finished.`))
}

func TestAnalyzeDocument_WithoutText(t *testing.T) {
	client := llmtest.New()
	a := newTestAssistant(t, client, "")
	a.SelectFiles(sampleFiles()[:1])
	id := a.Documents()[0].ID

	err := a.AnalyzeDocument(context.Background(), id)
	require.ErrorIs(t, err, analysis.ErrNoTextToAnalyze)
	assert.Zero(t, client.CallCount())
}

func TestCompare_DocumentAgainstUpload(t *testing.T) {
	client := llmtest.New().WithResponder(func(*llm.Request) llmtest.Reply {
		return llmtest.Reply{Text: "Both documents regulate leases."}
	})
	a := newTestAssistant(t, client, "")
	a.SelectFiles(sampleFiles()[:1])
	_, err := a.ProcessFiles(context.Background())
	require.NoError(t, err)

	fileB := document.File{Name: "other.txt", MIMEType: parser.MIMETypeText, Data: []byte("A second lease.")}
	result, err := a.Compare(context.Background(), SourceA{DocumentID: a.Documents()[0].ID}, fileB)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", result.NameA)
	assert.Equal(t, "other.txt", result.NameB)
	assert.Equal(t, "Both documents regulate leases.", result.Text)
	assert.Equal(t, 2, client.CallCount())

	last, ok := a.LastComparison()
	require.True(t, ok)
	assert.Equal(t, result.Text, last.Text)
}

func TestCompare_PreviousReplyMissing(t *testing.T) {
	client := llmtest.New()
	a := newTestAssistant(t, client, "")

	fileB := document.File{Name: "other.txt", MIMEType: parser.MIMETypeText, Data: []byte("A second lease.")}
	_, err := a.Compare(context.Background(), SourceA{}, fileB)
	require.ErrorIs(t, err, analysis.ErrMissingComparisonInput)
	assert.Zero(t, client.CallCount())

	_, ok := a.LastComparison()
	assert.False(t, ok)
}

func TestCompare_PreviousReply(t *testing.T) {
	client := llmtest.New(
		llmtest.Reply{Text: "Consumers have a right to information."},
		llmtest.Reply{Text: "raw comparison"},
		llmtest.Reply{Text: "reviewed comparison"},
	)
	a := newTestAssistant(t, client, "")
	_, err := a.Send(context.Background(), "Summarize consumer rights")
	require.NoError(t, err)

	fileB := document.File{Name: "policy.txt", MIMEType: parser.MIMETypeText, Data: []byte("Store policy.")}
	result, err := a.Compare(context.Background(), SourceA{}, fileB)
	require.NoError(t, err)
	assert.Equal(t, PreviousReplyName, result.NameA)
	assert.Equal(t, "reviewed comparison", result.Text)
}

func TestExportCSV(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	a.SelectFiles(sampleFiles()[:2])

	var buf bytes.Buffer
	require.NoError(t, a.ExportCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "notes.txt,"))
	assert.True(t, strings.HasPrefix(lines[2], "contract.pdf,"))
}

func TestExportCSVFile(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	a.SelectFiles(sampleFiles()[:1])

	path := filepath.Join(t.TempDir(), "analyses.csv")
	require.NoError(t, a.ExportCSVFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name,summary,"))
	assert.Contains(t, string(data), "notes.txt,")

	err = a.ExportCSVFile(filepath.Join(t.TempDir(), "missing", "analyses.csv"))
	assert.ErrorContains(t, err, "failed to create")
}

func TestSearchProcess_RejectsEmptyNumber(t *testing.T) {
	a := newTestAssistant(t, llmtest.New(), "")
	_, err := a.SearchProcess(context.Background(), "   ")
	assert.Error(t, err)
}
