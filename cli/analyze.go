package cli

import (
	"context"
	"fmt"
	"io"

	"legal-assistant/document"

	"github.com/spf13/cobra"
)

// AnalyzeCmd extracts and analyzes files and prints the results
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file> [file...]",
		Short: "Summarize, extract insights and run a SWOT analysis of documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, err := cmd.Flags().GetString("csv")
			if err != nil {
				return fmt.Errorf("failed to get csv flag: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			noticesDone := printNotices(ctx, a, cmd.ErrOrStderr())

			if err := a.LoadFiles(args); err != nil {
				return err
			}
			if _, err := a.ProcessFiles(ctx); err != nil {
				return err
			}

			failed := 0
			for _, doc := range a.Documents() {
				if doc.Text == "" {
					failed++
					continue
				}
				if err := a.AnalyzeDocument(ctx, doc.ID); err != nil {
					failed++
				}
			}

			for _, doc := range a.Documents() {
				writeAnalysis(cmd.OutOrStdout(), doc)
			}

			if csvPath != "" {
				if err := a.ExportCSVFile(csvPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Analyses exported to %s\n", csvPath)
			}

			cancel()
			<-noticesDone

			if failed > 0 {
				return fmt.Errorf("%d of %d document(s) could not be analyzed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().String("csv", "", "also export the analyses to this CSV file")
	return cmd
}


func writeAnalysis(w io.Writer, doc *document.Document) {
	fmt.Fprintf(w, "== %s ==\n", doc.Name)
	if doc.AnalysisError != "" {
		fmt.Fprintf(w, "Error: %s\n", doc.AnalysisError)
	}
	if doc.Summary != "" {
		fmt.Fprintf(w, "\nSummary:\n%s\n", doc.Summary)
	}
	if doc.Insights != "" {
		fmt.Fprintf(w, "\nKey insights:\n%s\n", doc.Insights)
	}
	if s := doc.SWOT; !s.Empty() {
		fmt.Fprintf(w, "\nStrengths:\n%s\n\nWeaknesses:\n%s\n\nOpportunities:\n%s\n\nThreats:\n%s\n",
			s.Strengths, s.Weaknesses, s.Opportunities, s.Threats)
	}
	fmt.Fprintln(w)
}
