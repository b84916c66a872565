package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/app"
	"github.com/abhisek/malla/internal/session"
)

// runApp opens the session and launches the TUI.
func runApp(cmd *cobra.Command, g *globals) error {
	ctx := cmd.Context()
	notices := &app.Notices{}

	sess, closeFn, err := openSession(ctx, g.cfg, session.WithNotifier(notices))
	if err != nil {
		return err
	}
	defer closeFn()

	return app.Run(app.Options{
		Context:     ctx,
		Session:     sess,
		Notices:     notices,
		NoticeDelay: g.cfg.NoticeDelay(),
		ExportPath:  exportPath(g.cfg),
	})
}
