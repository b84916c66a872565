package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/malla/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is an optional interface for screens that refresh when they
// become active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// NoticeMsg asks the application to show a transient notification.
type NoticeMsg struct {
	Text string
}

// Notice returns a command that emits a NoticeMsg.
func Notice(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text} }
}
