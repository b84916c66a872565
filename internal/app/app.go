package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/router"
	"github.com/abhisek/malla/internal/screen"
	"github.com/abhisek/malla/internal/screens/curriculummap"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/ui/components"
	"github.com/abhisek/malla/internal/ui/layout"
)

// Notices collects session notifications raised while a message is being
// handled. The app drains them into the toast after every update.
type Notices struct {
	pending []string
}

// Notify queues msg for display.
func (n *Notices) Notify(msg string) {
	n.pending = append(n.pending, msg)
}

func (n *Notices) drain() []string {
	out := n.pending
	n.pending = nil
	return out
}

// Options configures the TUI.
type Options struct {
	Context     context.Context
	Session     *session.Session
	Notices     *Notices
	NoticeDelay time.Duration
	ExportPath  string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	sess    *session.Session
	notices *Notices
	toast   components.Toast
	width   int
	height  int
}

// newAppModel creates a new AppModel with the curriculum map screen.
func newAppModel(opts Options) AppModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	notices := opts.Notices
	if notices == nil {
		notices = &Notices{}
	}

	mapScreen := curriculummap.New(ctx, opts.Session, curriculummap.Options{ExportPath: opts.ExportPath})
	return AppModel{
		router:  router.New(mapScreen),
		sess:    opts.Session,
		notices: notices,
		toast:   components.NewToast(opts.NoticeDelay),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.NoticeMsg:
		return m, m.toast.Notify(msg.Text)

	case components.ToastExpiredMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	notice := m.flushNotices()
	return m, tea.Batch(cmd, notice)
}

// flushNotices shows queued session notices. Only the newest one stays
// visible since each replaces the last.
func (m *AppModel) flushNotices() tea.Cmd {
	var cmd tea.Cmd
	for _, text := range m.notices.drain() {
		cmd = m.toast.Notify(text)
	}
	return cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the full frame: header, active screen, notice and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	counts := m.sess.Counts()
	header := layout.RenderHeader(title, counts.Passed, counts.Total, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)
	notice := m.toast.View(m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight - 1
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, notice+"\n"+footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Session == nil {
		return fmt.Errorf("no session")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
