package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.GeminiAPIKey, "a missing key must not fail loading")
	assert.Equal(t, DefaultLongDocumentThreshold, cfg.Analysis.LongDocumentThreshold)
	assert.Equal(t, DefaultSummaryInputCeiling, cfg.Analysis.SummaryInputCeiling)
	assert.Equal(t, cfg.Analysis.LongDocumentThreshold, cfg.Analysis.ComparisonSummaryThreshold)
	assert.Equal(t, DefaultRAGContentCap, cfg.Analysis.RAGContentCap)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LONG_DOCUMENT_THRESHOLD", "5000")
	t.Setenv("COMPARISON_SUMMARY_THRESHOLD", "")
	t.Setenv("CORPUS_CDC_URL", "https://example.com/cdc.pdf")
	t.Setenv("FETCH_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fallback-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 5000, cfg.Analysis.LongDocumentThreshold)
	assert.Equal(t, 5000, cfg.Analysis.ComparisonSummaryThreshold)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)

	corpus, ok := cfg.CorpusFor("cdc")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/cdc.pdf", corpus.URL)

	_, ok = cfg.CorpusFor("unknown")
	assert.False(t, ok)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown provider", key: "LLM_PROVIDER", val: "carrier-pigeon"},
		{name: "unknown cache backend", key: "CORPUS_CACHE", val: "disk"},
		{name: "non positive threshold", key: "LONG_DOCUMENT_THRESHOLD", val: "0"},
		{name: "bad corpus url", key: "CORPUS_CF88_URL", val: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("TEST_INT", 7))

	t.Setenv("TEST_DURATION", "bogus")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", getEnvString("TEST_STRING", "default"))
	assert.Equal(t, "default", getEnvString("TEST_STRING_UNSET", "default"))
}
