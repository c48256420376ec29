package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// MinLeftWidth is the minimum character width for the left pane.
const MinLeftWidth = 28

var (
	mutedText  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	errorText  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
	headerText = lipgloss.NewStyle().Bold(true)
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// PaneWidths calculates the left and right pane widths from a total width.
// Left pane gets 1/3 (minimum MinLeftWidth), right pane gets the rest.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth / 3
	if left < MinLeftWidth {
		left = MinLeftWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}
