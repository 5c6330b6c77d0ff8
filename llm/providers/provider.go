package providers

import (
	"context"
	"fmt"

	"legal-assistant/config"
	"legal-assistant/llm"

	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Provider names accepted by LLM_PROVIDER
const (
	ProviderGemini     = "gemini"
	ProviderGeminiEino = "gemini-eino"
	ProviderOpenAI     = "openai"
)

// NewClient creates the llm.Client selected by the configuration
func NewClient(ctx context.Context, cfg config.LLM, logger *zap.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg.GeminiAPIKey, logger), nil
	case ProviderGeminiEino:
		return NewEinoGeminiClient(ctx, cfg.GeminiAPIKey, cfg.AnalysisModel, logger)
	case ProviderOpenAI:
		return NewOpenAIClient(ctx, &ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// ChatModelConfig defines the configuration for an OpenAI-compatible chat model.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIClient creates an OpenAI-compatible client through eino-ext.
func NewOpenAIClient(ctx context.Context, cfg *ChatModelConfig, logger *zap.Logger) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	chatModel, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return NewEinoClient(chatModel, logger), nil
}

// NewEinoGeminiClient creates a Gemini client routed through the eino gemini
// component. Unlike NewGeminiClient it needs the key up front.
func NewEinoGeminiClient(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (llm.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	chatModel, err := geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client:         client,
		Model:          modelName,
		SafetySettings: SafetySettings(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini chat model: %w", err)
	}
	return NewEinoClient(chatModel, logger), nil
}
