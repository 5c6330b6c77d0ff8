package agent

import (
	"errors"
	"iter"
	"testing"

	"legal-assistant/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqOf(chunks []llm.Chunk, tail error) iter.Seq2[*llm.Chunk, error] {
	return func(yield func(*llm.Chunk, error) bool) {
		for i := range chunks {
			if !yield(&chunks[i], nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

func TestFoldStream_AccumulatesInOrder(t *testing.T) {
	var seen []string
	reply, err := foldStream(seqOf([]llm.Chunk{
		{TextDelta: "**Art. 6"},
		{TextDelta: "** guarantees"},
		{TextDelta: " information."},
	}, nil), func(r Reply) {
		seen = append(seen, r.Display())
	})

	require.NoError(t, err)
	assert.Equal(t, "**Art. 6** guarantees information.", reply.Raw)
	assert.Equal(t, "Art. 6 guarantees information.", reply.Final())
	assert.Equal(t, []string{
		"**Art. 6",
		"Art. 6 guarantees",
		"Art. 6 guarantees information.",
	}, seen)
}

func TestFoldStream_LatestReferencesWin(t *testing.T) {
	first := []llm.Reference{{URI: "https://a", Title: "A"}}
	second := []llm.Reference{{URI: "https://b", Title: "B"}}

	reply, err := foldStream(seqOf([]llm.Chunk{
		{TextDelta: "x", References: first},
		{TextDelta: "y"},
		{TextDelta: "z", References: second},
		{TextDelta: "!"},
	}, nil), nil)

	require.NoError(t, err)
	assert.Equal(t, second, reply.References)
}

func TestFoldStream_ErrorAborts(t *testing.T) {
	cause := errors.New("stream broke")
	calls := 0

	reply, err := foldStream(seqOf([]llm.Chunk{{TextDelta: "partial"}}, cause), func(Reply) { calls++ })
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "partial", reply.Raw)
	assert.Equal(t, 1, calls)
}

func TestReply_EmptyUsesPlaceholder(t *testing.T) {
	reply, err := foldStream(seqOf(nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, NoResponseText, reply.Final())

	assert.Equal(t, NoResponseText, Reply{Raw: "```\n```"}.Final())
}
