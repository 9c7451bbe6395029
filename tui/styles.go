package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/meikuraledutech/flowchart"
)

var (
	muted    = lipgloss.Color("#737373")
	danger   = lipgloss.Color("#f87171")
	headline = lipgloss.Color("#f5f5f5")
)

// Styles groups the lipgloss styles of the editor.
type Styles struct {
	Title    lipgloss.Style
	Row      lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Panel    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the dark canvas look.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(headline),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Cursor:   lipgloss.NewStyle().Foreground(headline).Bold(true),
		Selected: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(headline).PaddingLeft(1),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(danger),
	}
}

// accentStyle colours text with the node type's accent.
func accentStyle(t flowchart.NodeType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(flowchart.Descriptor(t).Accent.Hex)).Bold(true)
}

// badge renders the status pill in the status table's colour, or nothing
// for None.
func badge(s flowchart.Status) string {
	if !flowchart.BadgeVisible(s) {
		return ""
	}
	text, _ := flowchart.StatusColors(s)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(text.Hex())).Render("[" + string(s) + "]")
}
