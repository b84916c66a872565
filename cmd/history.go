package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent progress changes (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			events, err := sess.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("%s backend: %w", g.cfg.Storage.Backend, err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No progress recorded yet.")
				return nil
			}

			fmt.Fprintf(out, "%-19s  %-7s  %-10s  %6s  %s\n", "Time", "Action", "Unit", "Passed", "Session")
			for _, e := range events {
				fmt.Fprintf(out, "%-19s  %-7s  %-10s  %6d  %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Action, e.UnitID, e.PassedCount, shortID(e.SessionID))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to show (0 for all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
