package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/render"
)

func newGraphCmd(g *globals) *cobra.Command {
	var (
		format   string
		output   string
		clusters bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the curriculum map as Graphviz DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return fmt.Errorf("unknown format %q (use dot or svg)", format)
			}

			sess, closeFn, err := openSession(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			c := sess.Counts()
			dot := render.ToDOT(sess.Graph(), sess.Statuses(), render.Options{
				Clusters: clusters,
				Title:    fmt.Sprintf("%d of %d units passed", c.Passed, c.Total),
			})

			data := []byte(dot)
			if format == "svg" {
				data, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&clusters, "clusters", true, "Group units by term")
	return cmd
}
