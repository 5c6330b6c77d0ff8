package providers

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"

	"legal-assistant/llm"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// EinoClient adapts any eino chat model to llm.Client
type EinoClient struct {
	model  model.BaseChatModel
	logger *zap.Logger
}

// NewEinoClient wraps an eino chat model
func NewEinoClient(chatModel model.BaseChatModel, logger *zap.Logger) *EinoClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EinoClient{
		model:  chatModel,
		logger: logger.Named("eino"),
	}
}

// Generate performs a single eino Generate call
func (e *EinoClient) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	msg, err := e.model.Generate(ctx, toMessages(req), modelOptions(req)...)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return &llm.Response{}, nil
	}
	return &llm.Response{Text: strings.TrimSpace(msg.Content)}, nil
}

// GenerateStream drains the eino stream reader into a chunk sequence
func (e *EinoClient) GenerateStream(ctx context.Context, req *llm.Request) iter.Seq2[*llm.Chunk, error] {
	return func(yield func(*llm.Chunk, error) bool) {
		reader, err := e.model.Stream(ctx, toMessages(req), modelOptions(req)...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer reader.Close()

		for {
			msg, err := reader.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if msg == nil {
				continue
			}
			if !yield(&llm.Chunk{TextDelta: msg.Content}, nil) {
				return
			}
		}
	}
}

func modelOptions(req *llm.Request) []model.Option {
	if req.Model == "" {
		return nil
	}
	return []model.Option{model.WithModel(req.Model)}
}

// toMessages builds the eino message list: system instruction, history, prompt
func toMessages(req *llm.Request) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemInstruction))
	}
	for _, turn := range req.History {
		switch turn.Role {
		case llm.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Text))
		case llm.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return append(msgs, schema.UserMessage(req.Prompt))
}
