package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/malla/internal/ui/theme"
)

// Button is a styled button component. It fires on enter while focused,
// or on its shortcut key at any time.
type Button struct {
	Label    string
	Shortcut string
	Active   bool
	OnPress  func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label, shortcut string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:    label,
		Shortcut: shortcut,
		Active:   active,
		OnPress:  onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || b.OnPress == nil {
		return b, nil
	}

	key := kmsg.String()
	if (b.Active && key == "enter") || (b.Shortcut != "" && key == b.Shortcut) {
		return b, b.OnPress()
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := "  ▸ " + b.Label + " "
	if b.Shortcut != "" {
		label += "(" + b.Shortcut + ") "
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
