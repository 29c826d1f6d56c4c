package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qbank/internal/corpus"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed questions by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := restoreCorpus(cmd.Context(), eng); err != nil {
			return err
		}

		category, _ := cmd.Flags().GetString("category")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		limit, _ := cmd.Flags().GetInt("limit")

		results, err := eng.Search(strings.Join(args, " "), corpus.Filters{
			Category: category,
			Tags:     tags,
		})
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No matches")
			return nil
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		for _, r := range results {
			fmt.Printf("%-40s %-28s %s\n", r.ID, r.Category, r.Excerpt)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("category", "", "Restrict results to one category")
	searchCmd.Flags().StringSlice("tag", nil, "Require a tag (repeatable)")
	searchCmd.Flags().Int("limit", 10, "Maximum results to print (0 for all)")
}
