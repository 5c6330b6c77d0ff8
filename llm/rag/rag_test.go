package rag

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"legal-assistant/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SkipsDocumentsWithoutText(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{name: "none", texts: nil, want: nil},
		{name: "all empty", texts: []string{"", ""}, want: nil},
		{name: "mixed", texts: []string{"", "b", "", "d"}, want: []string{"doc1", "doc3"}},
		{name: "all present", texts: []string{"a", "b"}, want: []string{"doc0", "doc1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var docs []*document.Document
			for i, text := range tt.texts {
				d := document.New(document.File{Name: "doc" + string(rune('0'+i))})
				d.Text = text
				docs = append(docs, d)
			}

			ctx := Build(docs, 100)
			var names []string
			for _, e := range ctx {
				names = append(names, e.DocumentName)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, len(tt.want) == 0, ctx.Empty())
		})
	}
}

func TestBuild_CapsContentOnly(t *testing.T) {
	d := document.New(document.File{Name: "long.txt"})
	d.Text = strings.Repeat("á", 50)
	d.Summary = strings.Repeat("s", 200)
	d.Insights = "insights"
	d.SWOT = &document.SWOT{Strengths: "strong"}

	ctx := Build([]*document.Document{d}, 10)
	require.Len(t, ctx, 1)
	assert.Equal(t, 10, utf8.RuneCountInString(ctx[0].Content))
	assert.True(t, utf8.ValidString(ctx[0].Content))
	assert.Len(t, ctx[0].Summary, 200)
	assert.Equal(t, "insights", ctx[0].Insights)
	require.NotNil(t, ctx[0].SWOT)
	assert.Equal(t, "strong", ctx[0].SWOT.Strengths)
}

func TestBuild_Deterministic(t *testing.T) {
	a := document.New(document.File{Name: "a"})
	a.Text = "alpha"
	b := document.New(document.File{Name: "b"})
	b.Text = "beta"
	docs := []*document.Document{a, b}

	first, err := Build(docs, 100).Serialize()
	require.NoError(t, err)
	second, err := Build(docs, 100).Serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSerialize(t *testing.T) {
	assert.True(t, Context(nil).Empty())
	empty, err := Context(nil).Serialize()
	require.NoError(t, err)
	assert.Empty(t, empty)

	d := document.New(document.File{Name: "contract.pdf"})
	d.Text = "text"
	out, err := Build([]*document.Document{d}, 0).Serialize()
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "contract.pdf", decoded[0]["documentName"])
	assert.Equal(t, "text", decoded[0]["content"])
	assert.NotContains(t, decoded[0], "summary")
	assert.NotContains(t, decoded[0], "swot")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "çã", Truncate("çãé", 2))
}
