package cli

import (
	"context"
	"errors"
	"fmt"

	"legal-assistant/assistant"

	"github.com/spf13/cobra"
)

// CompareCmd compares two files
func CompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file-a> <file-b>",
		Short: "Compare two documents, summarizing long ones first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			noticesDone := printNotices(ctx, a, cmd.ErrOrStderr())

			if err := a.LoadFiles(args[:1]); err != nil {
				return err
			}
			if _, err := a.ProcessFiles(ctx); err != nil {
				return err
			}
			docs := a.Documents()
			if len(docs) != 1 {
				return errors.New("failed to load document A")
			}

			filesB, err := assistant.ReadFiles(args[1:])
			if err != nil {
				return err
			}

			result, err := a.Compare(ctx, assistant.SourceA{DocumentID: docs[0].ID}, filesB[0])
			cancel()
			<-noticesDone
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Comparison: %s vs %s\n\n%s\n", result.NameA, result.NameB, result.Text)
			return nil
		},
	}
}
