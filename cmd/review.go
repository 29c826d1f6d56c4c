package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List questions due for spaced repetition review",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		sched, err := eng.ReviewSchedule(cmd.Context())
		if err != nil {
			return err
		}

		due := sched.Due(time.Now())
		if len(due) == 0 {
			fmt.Println("Nothing due for review")
			return nil
		}

		fmt.Printf("%d questions due, most overdue first:\n", len(due))
		for _, id := range due {
			state := sched.Get(id)
			fmt.Printf("  %-40s last reviewed %s\n", id, state.LastReview.Format("2006-01-02"))
		}
		return nil
	},
}
