package tui

import "github.com/charmbracelet/lipgloss"

// MinLeftWidth is the minimum character width for the contact list pane.
const MinLeftWidth = 24

// Palette: the list pane is teal, the detail pane violet with matching labels.
var (
	listAccent   = lipgloss.AdaptiveColor{Light: "30", Dark: "43"}
	detailAccent = lipgloss.AdaptiveColor{Light: "97", Dark: "141"}

	headerText = lipgloss.NewStyle().Bold(true).Foreground(listAccent)
	labelText  = lipgloss.NewStyle().Foreground(detailAccent).Bold(true).Width(9)
	mutedText  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "246"})
	errorText  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	cursorText = lipgloss.NewStyle().Foreground(listAccent).Bold(true)
)

// ListBorder is the rounded frame around the contact names.
func ListBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(listAccent)
}

// DetailBorder frames the selected record. Padding keeps values off the edge.
func DetailBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(detailAccent).
		PaddingLeft(1)
}

// PaneWidths splits width between the list (a third, at least MinLeftWidth)
// and the detail pane. A terminal narrower than MinLeftWidth gets the list only.
func PaneWidths(width int) (list, detail int) {
	if width <= 0 {
		return 0, 0
	}
	list = max(width/3, MinLeftWidth)
	detail = max(width-list, 0)
	return list, detail
}
