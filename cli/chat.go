package cli

import (
	"context"

	"legal-assistant/llm/agent"
	"legal-assistant/tui/chat"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// ChatCmd starts the terminal chat, optionally with files preloaded
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [file...]",
		Short: "Chat about documents and legal corpora in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cmd.Flags().GetString("mode")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) > 0 {
				if err := a.LoadFiles(args); err != nil {
					return err
				}
			}
			if mode != string(agent.ModeGeneral) {
				// a failed corpus load stays visible in the chat
				_ = a.SwitchMode(ctx, agent.Mode(mode))
			}

			program := tea.NewProgram(
				chat.InitialModel(ctx, a.Assistant, len(args) > 0),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().String("mode", string(agent.ModeGeneral), "initial chat mode: general, cdc or cf88")
	return cmd
}
