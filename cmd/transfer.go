package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path|-]",
		Short: "Write progress to a JSON file",
		Long:  "Write the passed units as {\"aprobado\": [...]}. Defaults to the configured export file; - writes to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			path := exportPath(g.cfg)
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return sess.Export(cmd.OutOrStdout())
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := sess.Export(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d units to %s\n", len(sess.Passed()), path)
			return nil
		},
	}
}

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path|->",
		Short: "Replace progress with a previously exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := openSession(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			if err := sess.Import(cmd.Context(), r); err != nil {
				return err
			}

			c := sess.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported progress: %d of %d units passed\n", c.Passed, c.Total)
			return nil
		},
	}
}
