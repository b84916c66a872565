package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/store"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// maxEvents bounds how many events the screen loads.
const maxEvents = 200

type historyLoadedMsg struct {
	Events []store.ProgressEvent
	Err    error
}

// group is a run of consecutive events from one session.
type group struct {
	sessionID string
	events    []store.ProgressEvent
}

// HistoryScreen lists recent progress changes grouped by session.
type HistoryScreen struct {
	ctx      context.Context
	sess     *session.Session
	groups   []group
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctx context.Context, sess *session.Session) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		sess:     sess,
		expanded: map[int]bool{0: true},
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := s.sess.History(s.ctx, maxEvents)
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.groups = groupBySession(msg.Events)
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.groups)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

// groupBySession splits newest-first events into per-session runs.
func groupBySession(events []store.ProgressEvent) []group {
	var groups []group
	for _, e := range events {
		if n := len(groups); n > 0 && groups[n-1].sessionID == e.SessionID {
			groups[n-1].events = append(groups[n-1].events, e)
			continue
		}
		groups = append(groups, group{sessionID: e.SessionID, events: []store.ProgressEvent{e}})
	}
	return groups
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n%s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.groups) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No progress recorded yet.")
	}

	graph := s.sess.Graph()
	var b strings.Builder
	b.WriteString("\n")

	for i, g := range s.groups {
		latest := g.events[0]
		dateStr := latest.Timestamp.Local().Format("Jan 02, 2006 15:04")

		current := ""
		if g.sessionID == s.sess.ID() {
			current = "  (this session)"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %d changes  %d passed%s",
			prefix, dateStr, len(g.events), latest.PassedCount, current)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, e := range g.events {
				what := e.Action
				if e.UnitID != "" {
					what += " " + graph.Label(e.UnitID)
				}
				eventLine := fmt.Sprintf("    %s  %s", e.Timestamp.Local().Format("15:04:05"), what)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(actionColor(e.Action)).Render(eventLine)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func actionColor(action string) color.Color {
	switch action {
	case store.ActionPass:
		return theme.Success
	case store.ActionUnpass:
		return theme.Accent
	case store.ActionReset:
		return theme.Error
	case store.ActionImport:
		return theme.Secondary
	default:
		return theme.Text
	}
}
