// Package cli holds the cobra command tree of the legal assistant.
package cli

import (
	"context"
	"fmt"
	"io"

	"legal-assistant/assistant"
	"legal-assistant/config"
	"legal-assistant/corpus"
	"legal-assistant/llm"
	"legal-assistant/llm/agent"
	"legal-assistant/llm/providers"
	"legal-assistant/logger"
	"legal-assistant/pubsub"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd builds the command tree. Without a subcommand it starts the chat.
func RootCmd() *cobra.Command {
	chat := ChatCmd()
	root := &cobra.Command{
		Use:          "legal-assistant",
		Short:        "Document analysis and retrieval-augmented legal chat",
		SilenceUsage: true,
		Args:         chat.Args,
		RunE:         chat.RunE,
	}
	root.Flags().AddFlagSet(chat.Flags())

	root.AddCommand(
		chat,
		AnalyzeCmd(),
		CompareCmd(),
		ProcessCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return RootCmd().Execute()
}

// app bundles an assistant with the resources to release on exit
type app struct {
	*assistant.Assistant
	cfg     *config.Config
	logger  *zap.Logger
	closers []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	_ = a.logger.Sync()
}

// newApp loads the configuration and wires every component. console tees
// the log to stderr; the TUI disables it since it owns the terminal.
func newApp(ctx context.Context, console bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Log.File, cfg.Log.Level, console)

	client, err := providers.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	cache, err := corpus.NewCache(ctx, cfg.Cache, log)
	if err != nil {
		return nil, err
	}

	a, err := assistant.New(cfg, assistant.Deps{
		Client: client,
		Cache:  cache,
		Broker: pubsub.NewBrokerWithOptions[agent.Message](256),
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	out := &app{Assistant: a, cfg: cfg, logger: log}
	if c, ok := cache.(io.Closer); ok {
		out.closers = append(out.closers, c)
	}
	return out, nil
}

// printNotices writes system notices of every mode to w until ctx is done
func printNotices(ctx context.Context, a *app, w io.Writer) <-chan struct{} {
	done := make(chan struct{})
	sub := a.Chat().Broker().Subscribe(ctx)
	go func() {
		defer close(done)
		for event := range sub {
			msg := event.Payload
			if event.Type == pubsub.CreatedEvent && msg.Sender == llm.RoleSystem {
				fmt.Fprintln(w, "> "+msg.Text)
			}
		}
	}()
	return done
}
