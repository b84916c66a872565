package curriculummap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// DetailScreen shows one unit with its prerequisites and what it unlocks.
type DetailScreen struct {
	ctx  context.Context
	sess *session.Session
	id   string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

func newDetail(ctx context.Context, sess *session.Session, id string) *DetailScreen {
	return &DetailScreen{ctx: ctx, sess: sess, id: id}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }
func (d *DetailScreen) Title() string { return d.sess.Graph().Label(d.id) }

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "space":
			if _, err := d.sess.Toggle(d.ctx, d.id); err != nil {
				return d, screen.Notice("Could not save progress: " + err.Error())
			}
		case "n":
			return d, d.step(1)
		case "p":
			return d, d.step(-1)
		}
	}
	return d, nil
}

// step swaps this screen for the detail of the unit delta places away in
// declaration order. It stops at either end.
func (d *DetailScreen) step(delta int) tea.Cmd {
	units := d.sess.Graph().Units()
	for i, u := range units {
		if u.ID != d.id {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(units) {
			return nil
		}
		next := newDetail(d.ctx, d.sess, units[j].ID)
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	return nil
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Toggle"},
		{Key: "n/p", Description: "Next/Prev"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DetailScreen) View(width, height int) string {
	g := d.sess.Graph()
	u, err := g.Unit(d.id)
	if err != nil {
		return theme.Hint.Render("  " + err.Error())
	}
	st, _ := d.sess.Status(d.id)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s", st.State.Icon(), u.Label)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %s", st.State.Label())))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)
	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	b.WriteString(dimStyle.Render("  Code:  ") + valStyle.Render(u.ID) + "\n")
	if u.Group != "" {
		b.WriteString(dimStyle.Render("  Term:  ") + valStyle.Render(u.Group) + "\n")
	}
	b.WriteString("\n")

	if st.State == curriculum.StateLocked {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render("  " + d.sess.LockedNotice(st)))
		b.WriteString("\n\n")
	}

	if len(u.Prerequisites) > 0 {
		b.WriteString(heading.Render("  Prerequisites"))
		b.WriteString("\n")
		for _, p := range u.Prerequisites {
			icon := "○"
			style := dimStyle
			if ps, err := d.sess.Status(p); err == nil && ps.State == curriculum.StatePassed {
				icon = "●"
				style = lipgloss.NewStyle().Foreground(theme.Success)
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s %s", icon, g.Label(p))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(u.Unlocks) > 0 {
		b.WriteString(heading.Render("  Unlocks"))
		b.WriteString("\n")
		for _, next := range u.Unlocks {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  → %s", g.Label(next))))
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
