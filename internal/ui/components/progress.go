package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/ui/theme"
)

// ProgressBar shows how a curriculum splits into passed, available and
// locked units, left to right.
type ProgressBar struct {
	Label    string
	Passed   int
	Unlocked int
	Total    int
	Width    int
}

// NewProgressBar creates a bar for total units of which passed are passed and
// unlocked are available to take.
func NewProgressBar(label string, passed, unlocked, total, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Passed:   passed,
		Unlocked: unlocked,
		Total:    total,
		Width:    width,
	}
}

// Segments returns the cell widths of the passed, available and locked parts
// of a bar barWidth cells wide.
func (p ProgressBar) Segments(barWidth int) (passed, unlocked, locked int) {
	if p.Total <= 0 || barWidth <= 0 {
		return 0, 0, max(barWidth, 0)
	}
	passed = clamp(barWidth*p.Passed/p.Total, 0, barWidth)
	unlocked = clamp(barWidth*(p.Passed+p.Unlocked)/p.Total-passed, 0, barWidth-passed)
	return passed, unlocked, barWidth - passed - unlocked
}

func (p ProgressBar) summary() string {
	pct := 0
	if p.Total > 0 {
		pct = p.Passed * 100 / p.Total
	}
	return fmt.Sprintf("  %d/%d  %d%%", p.Passed, p.Total, pct)
}

// View renders the bar followed by the passed count and percentage.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	summary := p.summary()
	barWidth := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(summary), 4)

	passed, unlocked, locked := p.Segments(barWidth)
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", passed)))
	b.WriteString(theme.ProgressAvailable.Render(strings.Repeat(" ", unlocked)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", locked)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(summary))
	return b.String()
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
