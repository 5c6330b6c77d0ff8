package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-assistant/llm/llmtest"
	"legal-assistant/llm/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_SummarizesOversizedSide(t *testing.T) {
	client := llmtest.New(
		llmtest.Reply{Text: "draft summary of B"},
		llmtest.Reply{Text: "summary of B"},
		llmtest.Reply{Text: "draft comparison"},
		llmtest.Reply{Text: "**final** comparison"},
	)
	notifier := &recordingNotifier{}
	c := NewComparator(newTestAnalyzer(client, notifier), nil)

	result, err := c.Compare(context.Background(), ComparisonRequest{
		SourceA: Source{Name: "a.txt", Text: strings.Repeat("a", 2000)},
		SourceB: Source{Name: "b.pdf", Text: strings.Repeat("b", 20000)},
	})
	require.NoError(t, err)

	assert.Equal(t, "a.txt", result.NameA)
	assert.Equal(t, "b.pdf (summarized)", result.NameB)
	assert.Equal(t, "final comparison", result.Text)

	calls := client.Calls()
	require.Len(t, calls, 4)
	assert.Contains(t, calls[2].Prompt, "DOCUMENT A: a.txt\n"+strings.Repeat("a", 2000))
	assert.Contains(t, calls[2].Prompt, "DOCUMENT B: b.pdf (summarized)\nsummary of B")
	assert.Contains(t, notifier.all(), "Performing primary document comparison...")
}

func TestCompare_ShortSidesUnchanged(t *testing.T) {
	client := llmtest.New(llmtest.Reply{Text: "draft"}, llmtest.Reply{Text: "final"})
	c := NewComparator(newTestAnalyzer(client, nil), nil)

	result, err := c.Compare(context.Background(), ComparisonRequest{
		SourceA: Source{Name: "Previous reply", Text: "reply text"},
		SourceB: Source{Name: "b.txt", Text: "other text"},
	})
	require.NoError(t, err)
	assert.Equal(t, &ComparisonResult{Text: "final", NameA: "Previous reply", NameB: "b.txt"}, result)
	assert.Equal(t, 2, client.CallCount())
}

func TestCompare_MissingInputMakesNoCalls(t *testing.T) {
	tests := []struct {
		name string
		req  ComparisonRequest
	}{
		{name: "missing B", req: ComparisonRequest{SourceA: Source{Name: "a", Text: "text"}}},
		{name: "missing A", req: ComparisonRequest{SourceB: Source{Name: "b", Text: "text"}}},
		{name: "blank B", req: ComparisonRequest{SourceA: Source{Name: "a", Text: "text"}, SourceB: Source{Name: "b", Text: "  \n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llmtest.New()
			c := NewComparator(newTestAnalyzer(client, nil), nil)

			result, err := c.Compare(context.Background(), tt.req)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrMissingComparisonInput)
			assert.Zero(t, client.CallCount())
		})
	}
}

func TestCompare_SummaryFailureAborts(t *testing.T) {
	client := llmtest.New(llmtest.Reply{Err: errors.New("quota")})
	c := NewComparator(newTestAnalyzer(client, nil), nil)

	_, err := c.Compare(context.Background(), ComparisonRequest{
		SourceA: Source{Name: "a", Text: strings.Repeat("a", 9000)},
		SourceB: Source{Name: "b", Text: "short"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrimaryAnalysisFailed)
	assert.Equal(t, 1, client.CallCount())
}

func TestCompare_DistinctThreshold(t *testing.T) {
	cfg := testConfig
	cfg.ComparisonSummaryThreshold = 100
	client := llmtest.New(
		llmtest.Reply{Text: "s"}, llmtest.Reply{Text: "summary"},
		llmtest.Reply{Text: "c"}, llmtest.Reply{Text: "comparison"},
	)
	a := NewAnalyzer(client, prompts.MustLoad(), cfg, nil, nil)

	result, err := NewComparator(a, nil).Compare(context.Background(), ComparisonRequest{
		SourceA: Source{Name: "a", Text: strings.Repeat("a", 101)},
		SourceB: Source{Name: "b", Text: strings.Repeat("b", 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, "a (summarized)", result.NameA)
	assert.Equal(t, "b", result.NameB)
}
