package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the immutable application configuration read from the environment
type Config struct {
	LLM      LLM
	Analysis Analysis
	Corpora  []Corpus `validate:"dive"`
	Cache    Cache
	DataJud  DataJud
	Log      Log

	// ExtractConcurrency bounds how many files are extracted at once
	ExtractConcurrency int `validate:"gte=1"`
	// FetchTimeout applies to remote corpus and DataJud requests
	FetchTimeout time.Duration `validate:"gt=0"`
}

// LLM selects and configures the model provider.
// GeminiAPIKey is checked on the first model call, not at load time.
type LLM struct {
	Provider        string `validate:"oneof=gemini gemini-eino openai"`
	GeminiAPIKey    string
	ChatModel       string `validate:"required"`
	CorpusChatModel string `validate:"required"`
	AnalysisModel   string `validate:"required"`
	APIKey          string
	BaseURL         string
	Model           string
}

// Analysis holds the thresholds of the analysis pipeline, counted in characters
type Analysis struct {
	LongDocumentThreshold      int `validate:"gt=0"`
	SummaryInputCeiling        int `validate:"gt=0"`
	ComparisonSummaryThreshold int `validate:"gt=0"`
	RAGContentCap              int `validate:"gt=0"`
}

// Corpus is a remotely hosted read-only legal text used by a specialized chat mode
type Corpus struct {
	Mode string `validate:"required"`
	Name string `validate:"required"`
	URL  string `validate:"omitempty,url"`
}

// Cache configures where extracted corpus text is cached
type Cache struct {
	Backend       string `validate:"oneof=memory redis none"`
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DataJud configures the public court-process lookup
type DataJud struct {
	APIKey   string
	Endpoint string `validate:"omitempty,url"`
}

// Log configures the file logger
type Log struct {
	File  string `validate:"required"`
	Level string `validate:"oneof=debug info warn error"`
}

// Default values
const (
	DefaultChatModel             = "gemini-2.5-flash"
	DefaultAnalysisModel         = "gemini-2.5-flash"
	DefaultLongDocumentThreshold = 8000
	DefaultSummaryInputCeiling   = 30000
	DefaultRAGContentCap         = 20000
	DefaultDataJudEndpoint       = "https://api-publica.datajud.cnj.jus.br/api_publica_tjce/_search"
)

// Load reads the configuration from the process environment
func Load() (*Config, error) {
	longDoc := getEnvInt("LONG_DOCUMENT_THRESHOLD", DefaultLongDocumentThreshold)
	chatModel := getEnvString("GEMINI_CHAT_MODEL", DefaultChatModel)

	cfg := &Config{
		LLM: LLM{
			Provider:        strings.ToLower(getEnvString("LLM_PROVIDER", "gemini")),
			GeminiAPIKey:    getEnvString("GEMINI_API_KEY", os.Getenv("API_KEY")),
			ChatModel:       chatModel,
			CorpusChatModel: getEnvString("GEMINI_CORPUS_CHAT_MODEL", chatModel),
			AnalysisModel:   getEnvString("GEMINI_ANALYSIS_MODEL", DefaultAnalysisModel),
			APIKey:          os.Getenv("API_KEY"),
			BaseURL:         os.Getenv("BASE_URL"),
			Model:           os.Getenv("MODEL"),
		},
		Analysis: Analysis{
			LongDocumentThreshold:      longDoc,
			SummaryInputCeiling:        getEnvInt("SUMMARY_INPUT_CEILING", DefaultSummaryInputCeiling),
			ComparisonSummaryThreshold: getEnvInt("COMPARISON_SUMMARY_THRESHOLD", longDoc),
			RAGContentCap:              getEnvInt("RAG_CONTENT_CAP", DefaultRAGContentCap),
		},
		Corpora: []Corpus{
			{Mode: "cdc", Name: "Consumer Defense Code (CDC)", URL: os.Getenv("CORPUS_CDC_URL")},
			{Mode: "cf88", Name: "Federal Constitution of 1988 (CF/88)", URL: os.Getenv("CORPUS_CF88_URL")},
		},
		Cache: Cache{
			Backend:       strings.ToLower(getEnvString("CORPUS_CACHE", "memory")),
			TTL:           getEnvDuration("CORPUS_CACHE_TTL", 24*time.Hour),
			RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		DataJud: DataJud{
			APIKey:   os.Getenv("DATAJUD_API_KEY"),
			Endpoint: getEnvString("DATAJUD_ENDPOINT", DefaultDataJudEndpoint),
		},
		Log: Log{
			File:  getEnvString("LOG_FILE", "legal-assistant.log"),
			Level: strings.ToLower(getEnvString("LOG_LEVEL", "info")),
		},
		ExtractConcurrency: getEnvInt("EXTRACT_CONCURRENCY", 4),
		FetchTimeout:       getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// CorpusFor returns the corpus bound to a chat mode
func (c *Config) CorpusFor(mode string) (Corpus, bool) {
	for _, corpus := range c.Corpora {
		if corpus.Mode == mode {
			return corpus, true
		}
	}
	return Corpus{}, false
}

// getEnvString reads a string from environment variable
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer from environment variable
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration such as "90s" or "24h"
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
