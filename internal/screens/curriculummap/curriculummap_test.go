package curriculummap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screens/confirm"
	"github.com/abhisek/malla/internal/screens/history"
	"github.com/abhisek/malla/internal/screens/importfile"
	"github.com/abhisek/malla/internal/session"
)

func newTestScreen(t *testing.T, notes *[]string) (*Screen, *session.Session) {
	t.Helper()
	g := curriculum.Build([]curriculum.Declaration{
		{ID: "A", Label: "Alpha", Group: "Term 1", Unlocks: "B"},
		{ID: "B", Label: "Beta", Group: "Term 2"},
		{ID: "C", Label: "Gamma", Group: "Term 2"},
	})
	sess, err := session.New(context.Background(), g, progress.NewStore(progress.NewMemoryStorage()),
		session.WithNotifier(session.NotifierFunc(func(msg string) { *notes = append(*notes, msg) })))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	opts := Options{ExportPath: filepath.Join(t.TempDir(), "out", "progress.json")}
	return New(context.Background(), sess, opts), sess
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: string(code)}
}

func selected(t *testing.T, s *Screen) string {
	t.Helper()
	u, ok := s.Selected()
	if !ok {
		t.Fatal("no unit selected")
	}
	return u.ID
}

func TestEmptyCurriculumKeys(t *testing.T) {
	decls, err := curriculum.ParseYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sess, err := session.New(context.Background(), curriculum.Build(decls),
		progress.NewStore(progress.NewMemoryStorage()))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	s := New(context.Background(), sess, Options{ExportPath: filepath.Join(t.TempDir(), "p.json")})

	keys := []tea.KeyPressMsg{
		{Code: tea.KeyTab},
		{Code: tea.KeyTab, Mod: tea.ModShift},
		{Code: tea.KeyDown},
		{Code: tea.KeyUp},
		{Code: tea.KeyEnter},
		{Code: tea.KeyRight},
	}
	for _, k := range keys {
		s.Update(k)
	}
	if _, ok := s.Selected(); ok {
		t.Error("empty curriculum should have no selection")
	}
	if !strings.Contains(s.View(80, 20), "No units declared.") {
		t.Error("expected empty message")
	}
}

func TestCursorStartsOnFirstUnit(t *testing.T) {
	var notes []string
	s, _ := newTestScreen(t, &notes)
	if got := selected(t, s); got != "A" {
		t.Errorf("selected = %q, want A", got)
	}
}

func TestNavigationSkipsHeaders(t *testing.T) {
	var notes []string
	s, _ := newTestScreen(t, &notes)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if got := selected(t, s); got != "B" {
		t.Errorf("after down: %q, want B", got)
	}
	s.Update(key('j'))
	if got := selected(t, s); got != "C" {
		t.Errorf("after j: %q, want C", got)
	}
	s.Update(key('j'))
	if got := selected(t, s); got != "C" {
		t.Errorf("down at bottom moved to %q", got)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if got := selected(t, s); got != "B" {
		t.Errorf("after shift+tab: %q, want B", got)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if got := selected(t, s); got != "A" {
		t.Errorf("after second shift+tab: %q, want A", got)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := selected(t, s); got != "B" {
		t.Errorf("after tab: %q, want B", got)
	}
}

func TestToggleLockedShowsNotice(t *testing.T) {
	var notes []string
	s, sess := newTestScreen(t, &notes)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown}) // B, locked
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(sess.Passed()) != 0 {
		t.Errorf("locked toggle changed progress: %v", sess.Passed())
	}
	if len(notes) != 1 || !strings.Contains(notes[0], `"Beta"`) {
		t.Errorf("notes = %v", notes)
	}
}

func TestTogglePassesAndRefreshes(t *testing.T) {
	var notes []string
	s, sess := newTestScreen(t, &notes)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := sess.Passed(); len(got) != 1 || got[0] != "A" {
		t.Fatalf("passed = %v, want [A]", got)
	}
	if s.statuses["B"].State != curriculum.StateUnlocked {
		t.Errorf("B = %v, want unlocked", s.statuses["B"].State)
	}

	view := s.View(100, 20)
	if !strings.Contains(view, "Alpha") || !strings.Contains(view, "TERM 2") {
		t.Errorf("view missing content:\n%s", view)
	}
}

func TestResetFlow(t *testing.T) {
	var notes []string
	s, sess := newTestScreen(t, &notes)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, cmd := s.Update(key('r'))
	if cmd == nil {
		t.Fatal("r should push a confirm screen")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if _, ok := push.Screen.(*confirm.Screen); !ok {
		t.Errorf("pushed %T, want confirm screen", push.Screen)
	}

	s.Update(confirm.ResultMsg{ID: resetQuestion, Yes: false})
	if len(sess.Passed()) != 1 {
		t.Error("declined reset cleared progress")
	}

	s.Update(confirm.ResultMsg{ID: resetQuestion, Yes: true})
	if len(sess.Passed()) != 0 {
		t.Error("accepted reset kept progress")
	}
	if s.statuses["A"].State != curriculum.StateUnlocked {
		t.Errorf("A = %v after reset", s.statuses["A"].State)
	}
}

func TestSubScreens(t *testing.T) {
	tests := []struct {
		key  rune
		want string
	}{
		{'h', "history"},
		{'i', "import"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var notes []string
			s, _ := newTestScreen(t, &notes)
			_, cmd := s.Update(key(tt.key))
			if cmd == nil {
				t.Fatal("expected a push command")
			}
			push, ok := cmd().(router.PushScreenMsg)
			if !ok {
				t.Fatalf("got %T, want PushScreenMsg", cmd())
			}
			switch push.Screen.(type) {
			case *history.HistoryScreen:
				if tt.want != "history" {
					t.Errorf("pushed history screen for %q", string(tt.key))
				}
			case *importfile.Screen:
				if tt.want != "import" {
					t.Errorf("pushed import screen for %q", string(tt.key))
				}
			default:
				t.Errorf("pushed %T", push.Screen)
			}
		})
	}
}

func TestExportWritesDocument(t *testing.T) {
	var notes []string
	s, _ := newTestScreen(t, &notes)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, cmd := s.Update(key('e'))
	if cmd == nil {
		t.Fatal("export should report a notice")
	}

	data, err := os.ReadFile(s.opts.ExportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"aprobado"`) || !strings.Contains(string(data), `"A"`) {
		t.Errorf("export = %s", data)
	}
}

func TestDetailToggle(t *testing.T) {
	var notes []string
	_, sess := newTestScreen(t, &notes)

	d := newDetail(context.Background(), sess, "A")
	if d.Title() != "Alpha" {
		t.Errorf("title = %q", d.Title())
	}
	d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if st, _ := sess.Status("A"); st.State != curriculum.StatePassed {
		t.Errorf("A = %v, want passed", st.State)
	}
	if view := d.View(80, 20); !strings.Contains(view, "Unlocks") || !strings.Contains(view, "Beta") {
		t.Errorf("detail view:\n%s", view)
	}

	locked := newDetail(context.Background(), sess, "C")
	if view := locked.View(80, 20); !strings.Contains(view, "Gamma") {
		t.Errorf("detail view:\n%s", view)
	}
}

func TestDetailStepsThroughUnits(t *testing.T) {
	var notes []string
	_, sess := newTestScreen(t, &notes)

	d := newDetail(context.Background(), sess, "A")
	if _, cmd := d.Update(key('p')); cmd != nil {
		t.Error("p on the first unit should do nothing")
	}

	_, cmd := d.Update(key('n'))
	if cmd == nil {
		t.Fatal("n should replace the detail screen")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ReplaceScreenMsg", cmd())
	}
	next, ok := msg.Screen.(*DetailScreen)
	if !ok || next.Title() != "Beta" {
		t.Fatalf("replaced with %T %q", msg.Screen, msg.Screen.Title())
	}

	last := newDetail(context.Background(), sess, "C")
	if _, cmd := last.Update(key('n')); cmd != nil {
		t.Error("n on the last unit should do nothing")
	}
}
