package components

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/malla/internal/ui/layout"
)

// DefaultToastDelay is how long a notification stays visible.
const DefaultToastDelay = 2400 * time.Millisecond

// ToastExpiredMsg hides the toast shown under generation Gen.
type ToastExpiredMsg struct {
	Gen int
}

// Toast is a single transient message. A newer message replaces the
// current one and restarts its timer; ticks from older messages are
// ignored.
type Toast struct {
	text    string
	visible bool
	gen     int
	delay   time.Duration
}

// NewToast creates a hidden toast. A non-positive delay uses the default.
func NewToast(delay time.Duration) Toast {
	if delay <= 0 {
		delay = DefaultToastDelay
	}
	return Toast{delay: delay}
}

// Notify shows text and returns the command that hides it after the delay.
func (t *Toast) Notify(text string) tea.Cmd {
	t.text = text
	t.visible = true
	t.gen++
	return t.Schedule()
}

// Schedule returns a tick that expires the current generation.
func (t Toast) Schedule() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.delay, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Gen: gen}
	})
}

// Update hides the toast when its current generation expires.
func (t Toast) Update(msg tea.Msg) Toast {
	if m, ok := msg.(ToastExpiredMsg); ok && m.Gen == t.gen {
		t.visible = false
	}
	return t
}

// Visible reports whether the toast is showing.
func (t Toast) Visible() bool { return t.visible }

// Text returns the current message, or "" when hidden.
func (t Toast) Text() string {
	if !t.visible {
		return ""
	}
	return t.text
}

// Delay returns the visibility window.
func (t Toast) Delay() time.Duration { return t.delay }

// View renders the toast line at the given width.
func (t Toast) View(width int) string {
	return layout.RenderNotice(t.Text(), width)
}
