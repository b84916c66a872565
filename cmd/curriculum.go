package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/curriculum"
)

func newCurriculumCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Browse the curriculum declarations",
	}
	cmd.AddCommand(newCurriculumListCmd(g))
	return cmd
}

func newCurriculumListCmd(g *globals) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units with their prerequisites and what they unlock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := curriculum.Load(g.cfg.Curriculum)
			if err != nil {
				return fmt.Errorf("load curriculum: %w", err)
			}

			units := graph.Units()
			if group != "" {
				units = graph.ByGroup(group)
				if len(units) == 0 {
					return fmt.Errorf("no units found for group %q", group)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s  %-36s  %-12s  %-24s  %s\n",
				"ID", "Unit", "Group", "Requires", "Unlocks")
			fmt.Fprintln(out, strings.Repeat("─", 110))

			for _, u := range units {
				label := u.Label
				if r := []rune(label); len(r) > 36 {
					label = string(r[:33]) + "..."
				}
				unlocks := make([]string, len(u.Unlocks))
				for i, id := range u.Unlocks {
					unlocks[i] = id
					if !graph.Has(id) {
						unlocks[i] = id + "?"
					}
				}
				fmt.Fprintf(out, "%-10s  %-36s  %-12s  %-24s  %s\n",
					u.ID, label, u.Group,
					strings.Join(u.Prerequisites, ","), strings.Join(unlocks, ","))
			}

			fmt.Fprintf(out, "\n%d units", len(units))
			if dangling := graph.Dangling(); len(dangling) > 0 {
				fmt.Fprintf(out, ", %d unlock targets not declared (marked ?)", len(dangling))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only list units of this group (e.g. \"Semestre 1\")")
	return cmd
}
