package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-assistant/document"
	"legal-assistant/llm"
	"legal-assistant/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWith(text string) (*document.Store, string) {
	store := document.NewStore()
	d := document.New(document.File{Name: "contract.txt", MIMEType: "text/plain"})
	d.Text = text
	store.Replace([]*document.Document{d})
	return store, d.ID
}

func TestAnalyze_EmptyTextMakesNoCalls(t *testing.T) {
	client := llmtest.New()
	store, id := storeWith("")
	d := NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)

	err := d.Analyze(context.Background(), id)
	assert.ErrorIs(t, err, ErrNoTextToAnalyze)
	assert.Zero(t, client.CallCount())

	doc, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "no text to analyze", doc.AnalysisError)
	assert.False(t, doc.AnalysisInProgress)
	assert.Empty(t, doc.Summary)
	assert.Nil(t, doc.SWOT)
}

func TestAnalyze_UnknownDocument(t *testing.T) {
	d := NewDocumentAnalyzer(newTestAnalyzer(llmtest.New(), nil), document.NewStore(), nil)
	assert.ErrorIs(t, d.Analyze(context.Background(), "missing"), document.ErrNotFound)
}

func TestAnalyze_FullPipeline(t *testing.T) {
	client := llmtest.New(
		llmtest.Reply{Text: "draft summary"},
		llmtest.Reply{Text: "**Final summary**"},
		llmtest.Reply{Text: "draft insights"},
		llmtest.Reply{Text: "- insight one\n- insight two"},
		llmtest.Reply{Text: "draft swot"},
		llmtest.Reply{Text: "Strengths:\n- clear terms\nWeaknesses: vague penalty\nOpportunities:\n- renegotiation\nThreats:\n- litigation"},
	)
	store, id := storeWith("short contract text")
	d := NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)

	require.NoError(t, d.Analyze(context.Background(), id))

	doc, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Final summary", doc.Summary)
	assert.Equal(t, "insight one\ninsight two", doc.Insights)
	require.NotNil(t, doc.SWOT)
	assert.Equal(t, document.SWOT{
		Strengths:     "clear terms",
		Weaknesses:    "vague penalty",
		Opportunities: "renegotiation",
		Threats:       "litigation",
	}, *doc.SWOT)
	assert.False(t, doc.AnalysisInProgress)
	assert.Empty(t, doc.AnalysisError)

	calls := client.Calls()
	require.Len(t, calls, 6)
	// short documents feed the original text to insights and SWOT
	assert.Contains(t, calls[2].Prompt, "short contract text")
	assert.Contains(t, calls[2].Prompt, "SUMMARY OF THE DOCUMENT:\nFinal summary")
	assert.Contains(t, calls[4].Prompt, "KEY INSIGHTS:\ninsight one")
}

func TestAnalyze_LongDocumentUsesSummaryAsInput(t *testing.T) {
	long := strings.Repeat("§", testConfig.LongDocumentThreshold+1)
	client := llmtest.New().WithResponder(func(req *llm.Request) llmtest.Reply {
		return llmtest.Reply{Text: "condensed"}
	})
	store, id := storeWith(long)
	d := NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)

	require.NoError(t, d.Analyze(context.Background(), id))

	calls := client.Calls()
	require.Len(t, calls, 6)
	// summarization always sees the full text
	assert.Equal(t, len([]rune(long)), strings.Count(calls[0].Prompt, "§"))
	assert.NotContains(t, calls[2].Prompt, "§")
	assert.NotContains(t, calls[4].Prompt, "§")
	assert.Contains(t, calls[2].Prompt, "DOCUMENT:\ncondensed")
}

func TestAnalyze_StageFailureKeepsEarlierResults(t *testing.T) {
	client := llmtest.New(
		llmtest.Reply{Text: "draft summary"},
		llmtest.Reply{Text: "final summary"},
		llmtest.Reply{Err: errors.New("RESOURCE_EXHAUSTED")},
	)
	store, id := storeWith("text")
	d := NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)

	err := d.Analyze(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrimaryAnalysisFailed)
	assert.Equal(t, 3, client.CallCount())

	doc, getErr := store.Get(id)
	require.NoError(t, getErr)
	assert.Equal(t, "final summary", doc.Summary)
	assert.Empty(t, doc.Insights)
	assert.Nil(t, doc.SWOT)
	assert.False(t, doc.AnalysisInProgress)
	assert.Contains(t, doc.AnalysisError, "key insights")
	assert.Contains(t, doc.AnalysisError, "RESOURCE_EXHAUSTED")
}

func TestAnalyze_RerunClearsPreviousError(t *testing.T) {
	client := llmtest.New(llmtest.Reply{Err: errors.New("boom")})
	store, id := storeWith("text")
	d := NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)

	require.Error(t, d.Analyze(context.Background(), id))

	client = llmtest.New().WithResponder(func(*llm.Request) llmtest.Reply {
		return llmtest.Reply{Text: "Strengths: ok"}
	})
	d = NewDocumentAnalyzer(newTestAnalyzer(client, nil), store, nil)
	require.NoError(t, d.Analyze(context.Background(), id))

	doc, err := store.Get(id)
	require.NoError(t, err)
	assert.Empty(t, doc.AnalysisError)
	require.NotNil(t, doc.SWOT)
	assert.Equal(t, "ok", doc.SWOT.Strengths)
}
