package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/session"
)

func newToggleCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Click units: mark unlocked units passed, passed units unpassed",
		Long:  "Toggle each unit in order. Locked units are left unchanged and the missing prerequisites are reported.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			notifier := session.NotifierFunc(func(msg string) {
				fmt.Fprintln(out, msg)
			})

			sess, closeFn, err := openSession(cmd.Context(), g.cfg, session.WithNotifier(notifier))
			if err != nil {
				return err
			}
			defer closeFn()

			for _, id := range args {
				res, err := sess.Toggle(cmd.Context(), id)
				if err != nil {
					return err
				}
				if res.Changed {
					fmt.Fprintf(out, "%s: %s -> %s\n", res.ID, res.From, res.To)
				}
			}
			return nil
		},
	}
}
