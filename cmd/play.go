package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/qbank/internal/quiz"
	"github.com/abhisek/qbank/internal/screens/flashcard"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive flashcard session",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := restoreCorpus(cmd.Context(), eng); err != nil {
			return err
		}

		policy := quiz.Policy{}
		if s, _ := cmd.Flags().GetString("policy"); s != "" {
			kind, err := quiz.ParsePolicyKind(s)
			if err != nil {
				return err
			}
			policy.Kind = kind
		}
		policy.Category, _ = cmd.Flags().GetString("category")
		policy.Limit, _ = cmd.Flags().GetInt("limit")
		policy.Seed, _ = cmd.Flags().GetInt64("seed")

		return flashcard.Run(eng, policy)
	},
}

func init() {
	playCmd.Flags().String("policy", "", "Selection policy: random, weakness-weighted, or category-locked")
	playCmd.Flags().String("category", "", "Category to quiz on")
	playCmd.Flags().Int("limit", 10, "Number of questions per session (0 for all)")
	playCmd.Flags().Int64("seed", 0, "Shuffle seed for reproducible sessions")
}
