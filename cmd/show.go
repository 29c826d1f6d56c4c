package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <question-id>",
	Short: "Print one question in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := restoreCorpus(cmd.Context(), eng); err != nil {
			return err
		}

		q, err := eng.GetQuestion(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  [%s]\n\n", q.ID, q.Category)
		fmt.Println(q.Prompt)
		fmt.Println()
		fmt.Println("Answer:", q.Answer)
		for _, snip := range q.Snippets {
			fmt.Printf("\n```%s\n%s\n```\n", snip.Language, snip.Code)
		}
		if q.Explanation != "" {
			fmt.Println("\nExplanation:", q.Explanation)
		}
		if len(q.Tags) > 0 {
			fmt.Println("\nTags:", strings.Join(q.Tags, ", "))
		}
		return nil
	},
}
