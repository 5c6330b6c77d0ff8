package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ProcessCmd looks a court process up in DataJud
func ProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <number>",
		Short: "Look a court process up in the public DataJud API",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}

			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.SearchProcess(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(result.Processes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Format())
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the matching processes as JSON")
	return cmd
}
