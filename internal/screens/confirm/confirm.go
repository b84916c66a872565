package confirm

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/ui/components"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// ResultMsg carries the answer to the question identified by ID. It is
// delivered after the confirm screen has been popped.
type ResultMsg struct {
	ID  string
	Yes bool
}

// Screen asks a yes/no question. No is focused first.
type Screen struct {
	id      string
	prompt  string
	buttons [2]components.Button
	focus   int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a confirm screen for prompt. id is echoed in the ResultMsg.
func New(id, prompt string) *Screen {
	s := &Screen{id: id, prompt: prompt, focus: 1}
	s.buttons[0] = components.NewButton("Yes", "y", false, s.answer(true))
	s.buttons[1] = components.NewButton("No", "n", true, s.answer(false))
	return s
}

func (s *Screen) answer(yes bool) func() tea.Cmd {
	return func() tea.Cmd {
		result := ResultMsg{ID: s.id, Yes: yes}
		return tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return result },
		)
	}
}

func (s *Screen) Init() tea.Cmd { return nil }
func (s *Screen) Title() string { return "Confirm" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		s.setFocus(1 - s.focus)
		return s, nil
	}

	for i := range s.buttons {
		var cmd tea.Cmd
		s.buttons[i], cmd = s.buttons[i].Update(kmsg)
		if cmd != nil {
			return s, cmd
		}
	}
	return s, nil
}

func (s *Screen) setFocus(i int) {
	s.focus = i
	for j := range s.buttons {
		s.buttons[j].Active = j == i
	}
}

// Focused returns the label of the focused button.
func (s *Screen) Focused() string {
	return s.buttons[s.focus].Label
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "y/n", Description: "Answer"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *Screen) View(width, height int) string {
	question := theme.Title.Render(s.prompt)
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		s.buttons[0].View(), "  ", s.buttons[1].View())

	card := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, question, "", buttons))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
