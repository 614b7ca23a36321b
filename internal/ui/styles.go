package ui

import "github.com/charmbracelet/lipgloss"

// MinFormWidth is the minimum character width for the form pane.
const MinFormWidth = 34

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}
	errorColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}

	selectedRow = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	mutedText   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	labelText   = lipgloss.NewStyle().Bold(true)
	statusOK    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	statusError = lipgloss.NewStyle().Foreground(errorColor)
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor)
}

// NoticeBox returns the style for the modal error notice.
func NoticeBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(errorColor).
		Padding(1, 3)
}

// PaneWidths calculates the list and form pane widths from a total width.
// The form gets 1/3 (minimum MinFormWidth), the list gets the rest.
func PaneWidths(totalWidth int) (list, form int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	form = totalWidth / 3
	if form < MinFormWidth {
		form = MinFormWidth
	}
	list = totalWidth - form
	if list < 0 {
		list = 0
	}
	return list, form
}
