package providers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"legal-assistant/llm"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned on the first call when no credential was configured
var ErrMissingAPIKey = errors.New("gemini API key not valid: no API key configured")

// SafetySettings returns the fixed content-risk configuration applied to every call.
func SafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

// GeminiClient talks to the Gemini API through google.golang.org/genai.
// The underlying client is created on first use so a missing key only
// surfaces when a request is made.
type GeminiClient struct {
	apiKey string
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a Gemini backed llm.Client
func NewGeminiClient(apiKey string, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey: apiKey,
		logger: logger.Named("gemini"),
	}
}

func (g *GeminiClient) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	g.client = client
	return client, nil
}

// Generate performs a single GenerateContent call
func (g *GeminiClient) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	client, err := g.genaiClient(ctx)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("generate content",
		zap.String("model", req.Model),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Bool("system_instruction", req.SystemInstruction != ""),
	)

	resp, err := client.Models.GenerateContent(ctx, req.Model, toContents(req), generateConfig(req))
	if err != nil {
		return nil, err
	}

	return &llm.Response{
		Text:       strings.TrimSpace(resp.Text()),
		References: groundingReferences(resp),
	}, nil
}

// GenerateStream streams a GenerateContent call chunk by chunk
func (g *GeminiClient) GenerateStream(ctx context.Context, req *llm.Request) iter.Seq2[*llm.Chunk, error] {
	return func(yield func(*llm.Chunk, error) bool) {
		client, err := g.genaiClient(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		stream := client.Models.GenerateContentStream(ctx, req.Model, toContents(req), generateConfig(req))
		for resp, err := range stream {
			if err != nil {
				yield(nil, err)
				return
			}
			chunk := &llm.Chunk{
				TextDelta:  resp.Text(),
				References: groundingReferences(resp),
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func generateConfig(req *llm.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SafetySettings: SafetySettings(),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	return cfg
}

// toContents maps the history plus the prompt to Gemini contents.
// System turns are UI-only and never sent as history.
func toContents(req *llm.Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		switch turn.Role {
		case llm.RoleUser:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleModel))
		}
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func groundingReferences(resp *genai.GenerateContentResponse) []llm.Reference {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil || len(meta.GroundingChunks) == 0 {
		return nil
	}

	refs := make([]llm.Reference, 0, len(meta.GroundingChunks))
	for _, gc := range meta.GroundingChunks {
		if gc == nil || gc.Web == nil || gc.Web.URI == "" {
			continue
		}
		title := gc.Web.Title
		if title == "" {
			title = gc.Web.URI
		}
		refs = append(refs, llm.Reference{URI: gc.Web.URI, Title: title})
	}
	return refs
}
