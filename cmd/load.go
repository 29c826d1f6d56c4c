package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <file.md>...",
	Short: "Parse markdown documents and index their questions",
	Args: func(cmd *cobra.Command, args []string) error {
		if fromSnap, _ := cmd.Flags().GetBool("from-snapshot"); fromSnap {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if fromSnap, _ := cmd.Flags().GetBool("from-snapshot"); fromSnap {
			summary, err := eng.LoadFromSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Restored %d questions across %d categories from the latest snapshot\n",
				summary.Questions, len(summary.Categories))
			return nil
		}

		summary, err := eng.LoadCorpus(cmd.Context(), args)
		if err != nil {
			return err
		}

		if err := eng.SaveSnapshot(cmd.Context()); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}

		fmt.Printf("Indexed %d questions (%d skipped) across %d categories from %d documents\n",
			summary.Questions, summary.Skipped, len(summary.Categories), len(summary.Documents))
		for _, doc := range summary.Documents {
			fmt.Printf("  %s: %d questions\n", doc.Path, doc.Questions)
			for _, diag := range doc.Diagnostics {
				fmt.Printf("    warning: %s\n", diag)
			}
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().Bool("from-snapshot", false, "Restore the most recent persisted index instead of parsing documents")
}
