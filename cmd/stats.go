package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-tag answer accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := eng.TagAccuracy(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No answers recorded yet")
			return nil
		}

		tags := make([]string, 0, len(stats))
		for tag := range stats {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		fmt.Printf("%-30s %8s %8s %9s\n", "TAG", "ANSWERED", "CORRECT", "ACCURACY")
		for _, tag := range tags {
			s := stats[tag]
			fmt.Printf("%-30s %8d %8d %8.0f%%\n", tag, s.Total, s.Correct, s.Accuracy*100)
		}

		sched, err := eng.ReviewSchedule(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("\n%d of %d questions due for review\n", len(sched.Due(time.Now())), sched.Len())
		return nil
	},
}
