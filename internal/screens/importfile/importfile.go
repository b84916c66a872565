package importfile

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/components"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// Screen prompts for a progress document to import.
type Screen struct {
	ctx   context.Context
	sess  *session.Session
	input components.TextInput
	err   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the import prompt, pre-filled with path.
func New(ctx context.Context, sess *session.Session, path string) *Screen {
	return &Screen{
		ctx:   ctx,
		sess:  sess,
		input: components.NewTextInput("path/to/progress.json", path, 512),
	}
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }
func (s *Screen) Title() string { return "Import progress" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.err = ""
	}
	return s, cmd
}

// Err returns the last import error shown under the prompt.
func (s *Screen) Err() string { return s.err }

func (s *Screen) submit() tea.Cmd {
	path := s.input.Value()
	if path == "" {
		return nil
	}

	if err := s.importFile(path); err != nil {
		s.err = err.Error()
		s.input.Submit(false)
		return screen.Notice("Import failed: " + err.Error())
	}

	s.input.Submit(true)
	c := s.sess.Counts()
	return tea.Batch(
		func() tea.Msg { return router.PopScreenMsg{} },
		screen.Notice(fmt.Sprintf("Progress imported: %d of %d units passed.", c.Passed, c.Total)),
	)
}

func (s *Screen) importFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.sess.Import(s.ctx, f)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Import"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *Screen) View(width, height int) string {
	parts := []string{
		theme.Title.Render("Import a progress file"),
		"",
		s.input.View(),
	}
	if s.err != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.err))
	}
	card := theme.Card.Width(min(width-4, 72)).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
