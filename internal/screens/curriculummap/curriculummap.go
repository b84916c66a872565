package curriculummap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/screens/confirm"
	"github.com/abhisek/malla/internal/screens/history"
	"github.com/abhisek/malla/internal/screens/importfile"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/components"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

const resetQuestion = "reset"

type rowKind int

const (
	rowGroupHeader rowKind = iota
	rowUnit
)

type row struct {
	kind  rowKind
	group string
	unit  curriculum.Unit
}

// Options configures the map screen.
type Options struct {
	// ExportPath is where the e key writes the progress document.
	ExportPath string
}

// Screen displays every unit grouped by term, with its state.
type Screen struct {
	ctx          context.Context
	sess         *session.Session
	opts         Options
	rows         []row
	cursor       int
	scrollOffset int
	statuses     map[string]curriculum.Status
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Resumer = (*Screen)(nil)

// New creates the map screen over sess.
func New(ctx context.Context, sess *session.Session, opts Options) *Screen {
	g := sess.Graph()

	var rows []row
	for _, group := range g.Groups() {
		rows = append(rows, row{kind: rowGroupHeader, group: group})
		for _, u := range g.ByGroup(group) {
			rows = append(rows, row{kind: rowUnit, group: group, unit: u})
		}
	}

	s := &Screen{ctx: ctx, sess: sess, opts: opts, rows: rows}
	s.refresh()

	for i, r := range s.rows {
		if r.kind == rowUnit {
			s.cursor = i
			break
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }
func (s *Screen) Title() string { return "Curriculum" }

// Resume refreshes unit states after an import or detail toggle.
func (s *Screen) Resume() tea.Cmd {
	s.refresh()
	return nil
}

func (s *Screen) refresh() {
	s.statuses = make(map[string]curriculum.Status, s.sess.Graph().Len())
	for _, st := range s.sess.Statuses() {
		s.statuses[st.ID] = st
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case confirm.ResultMsg:
		if msg.ID == resetQuestion {
			return s, s.reset(msg.Yes)
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextGroup()
		case "shift+tab":
			s.prevGroup()
		case "enter", "space":
			return s, s.toggle()
		case "right", "l":
			return s, s.openDetail()
		case "r":
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: confirm.New(resetQuestion, session.ResetPrompt)}
			}
		case "e":
			return s, s.export()
		case "i":
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: importfile.New(s.ctx, s.sess, s.opts.ExportPath)}
			}
		case "h":
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(s.ctx, s.sess)}
			}
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// Selected returns the unit under the cursor.
func (s *Screen) Selected() (curriculum.Unit, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowUnit {
		return curriculum.Unit{}, false
	}
	return s.rows[s.cursor].unit, true
}

func (s *Screen) toggle() tea.Cmd {
	u, ok := s.Selected()
	if !ok {
		return nil
	}
	if _, err := s.sess.Toggle(s.ctx, u.ID); err != nil {
		return screen.Notice("Could not save progress: " + err.Error())
	}
	s.refresh()
	return nil
}

func (s *Screen) reset(yes bool) tea.Cmd {
	cleared, err := s.sess.Reset(s.ctx, session.Answer(yes))
	if err != nil {
		return screen.Notice("Could not reset progress: " + err.Error())
	}
	if !cleared {
		return nil
	}
	s.refresh()
	return screen.Notice("Progress cleared.")
}

func (s *Screen) export() tea.Cmd {
	path := s.opts.ExportPath
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return screen.Notice("Export failed: " + err.Error())
	}
	f, err := os.Create(path)
	if err != nil {
		return screen.Notice("Export failed: " + err.Error())
	}
	defer f.Close()

	if err := s.sess.Export(f); err != nil {
		return screen.Notice("Export failed: " + err.Error())
	}
	return screen.Notice("Exported to " + path)
}

func (s *Screen) openDetail() tea.Cmd {
	u, ok := s.Selected()
	if !ok {
		return nil
	}
	detail := newDetail(s.ctx, s.sess, u.ID)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Term"},
		{Key: "Enter", Description: "Toggle"},
		{Key: "→", Description: "Details"},
		{Key: "e/i", Description: "Export/Import"},
		{Key: "r", Description: "Reset"},
		{Key: "h", Description: "History"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *Screen) View(width, height int) string {
	if len(s.rows) == 0 {
		return theme.Hint.Render("  No units declared.")
	}

	c := s.sess.Counts()
	bar := components.NewProgressBar("  Passed", c.Passed, c.Available, c.Total, width-4).View()
	height -= 2

	s.adjustScroll(height)

	lines := []string{bar, ""}
	visible := 0
	for i, r := range s.rows {
		if i < s.scrollOffset {
			continue
		}
		if visible >= height {
			break
		}

		switch r.kind {
		case rowGroupHeader:
			lines = append(lines, s.renderGroupHeader(r.group, width))
		case rowUnit:
			lines = append(lines, s.renderUnitRow(r.unit, i == s.cursor, width))
		}
		visible++
	}

	return strings.Join(lines, "\n")
}

// moveCursor moves the cursor by delta, skipping group headers.
func (s *Screen) moveCursor(delta int) {
	next := s.cursor + delta
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowUnit {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextGroup jumps to the first unit of the next group.
func (s *Screen) nextGroup() {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].group
	for i := s.cursor + 1; i < len(s.rows); i++ {
		if s.rows[i].kind == rowUnit && s.rows[i].group != current {
			s.cursor = i
			return
		}
	}
}

// prevGroup jumps to the first unit of the previous group, or the first
// unit of the current group when the cursor is further down.
func (s *Screen) prevGroup() {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].group
	first := s.firstUnitOf(current)
	if first < s.cursor {
		s.cursor = first
		return
	}
	for i := s.cursor - 1; i >= 0; i-- {
		if s.rows[i].kind == rowUnit && s.rows[i].group != current {
			s.cursor = s.firstUnitOf(s.rows[i].group)
			return
		}
	}
}

func (s *Screen) firstUnitOf(group string) int {
	for i, r := range s.rows {
		if r.kind == rowUnit && r.group == group {
			return i
		}
	}
	return s.cursor
}

// adjustScroll keeps the cursor, and its group header when possible,
// inside the viewport.
func (s *Screen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowGroupHeader {
		headerRow--
	}

	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *Screen) renderGroupHeader(group string, width int) string {
	name := group
	if name == "" {
		name = "Other"
	}
	return theme.GroupHeading.
		Width(width).
		Padding(1, 0, 0, 2).
		Render(strings.ToUpper(name))
}

func (s *Screen) renderUnitRow(u curriculum.Unit, selected bool, width int) string {
	st := s.statuses[u.ID]

	idWidth := 8
	stateWidth := 10
	nameWidth := width - 4 - 3 - idWidth - stateWidth - 6
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := u.Label
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-1]) + "…"
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = theme.Cursor
	case st.State == curriculum.StatePassed:
		style = theme.Passed
	case st.State == curriculum.StateUnlocked:
		style = theme.Unlocked
	default:
		style = theme.Locked
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s %s  %s",
		cursor,
		st.State.Icon(),
		style.Render(fmt.Sprintf("%-*s", idWidth, u.ID)),
		style.Render(padRunes(name, nameWidth)),
		style.Render(fmt.Sprintf("%*s", stateWidth, st.State.Label())),
	)
}

func padRunes(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
