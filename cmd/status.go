package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/ui/layout"
)

func newStatusCmd(g *globals) *cobra.Command {
	var available, blocked bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every unit with its state and missing prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if available && blocked {
				return fmt.Errorf("--available and --blocked are mutually exclusive")
			}

			sess, closeFn, err := openSession(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			graph := sess.Graph()

			switch {
			case available:
				printUnits(out, sess.Available(), "Nothing can be taken right now.")
				return nil
			case blocked:
				units := sess.Blocked()
				for _, u := range units {
					st, _ := sess.Status(u.ID)
					fmt.Fprintf(out, "%-10s  %s  (needs %s)\n", u.ID, u.Label, strings.Join(graph.Labels(st.Deficit), ", "))
				}
				if len(units) == 0 {
					fmt.Fprintln(out, "Nothing is blocked.")
				}
				return nil
			}

			fmt.Fprintf(out, "%-10s  %-36s  %-9s  %s\n", "ID", "Unit", "State", "Missing")
			fmt.Fprintln(out, strings.Repeat("─", 90))

			group := ""
			for i, st := range sess.Statuses() {
				u, _ := graph.Unit(st.ID)
				if i == 0 || u.Group != group {
					group = u.Group
					if group != "" {
						fmt.Fprintf(out, "\n%s\n", strings.ToUpper(group))
					}
				}

				label := u.Label
				if r := []rune(label); len(r) > 36 {
					label = string(r[:33]) + "..."
				}
				missing := ""
				if st.State == curriculum.StateLocked {
					missing = strings.Join(graph.Labels(st.Deficit), ", ")
				}
				fmt.Fprintf(out, "%-10s  %-36s  %-9s  %s\n", st.ID, label, st.State.Label(), missing)
			}

			c := sess.Counts()
			fmt.Fprintf(out, "\n%d of %d units passed (%d%%), %d available\n",
				c.Passed, c.Total, layout.Percent(c.Passed, c.Total), c.Available)
			return nil
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "Only list units that can be passed now")
	cmd.Flags().BoolVar(&blocked, "blocked", false, "Only list units waiting on a prerequisite")
	return cmd
}

func printUnits(w io.Writer, units []curriculum.Unit, empty string) {
	if len(units) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, u := range units {
		fmt.Fprintf(w, "%-10s  %s\n", u.ID, u.Label)
	}
}
