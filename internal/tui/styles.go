package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted  = lipgloss.Color("#8b8fa3")
	colorText   = lipgloss.Color("#e8e9ef")
	colorBlurb  = lipgloss.Color("#cfd2dc")
	colorPanel  = lipgloss.Color("#1b1d27")
	colorDanger = lipgloss.Color("#e53935")
	colorOK     = lipgloss.Color("#8BC34A")
)

type styles struct {
	Brand    lipgloss.Style
	Progress lipgloss.Style
	Bonus    lipgloss.Style
	Question lipgloss.Style
	Option   lipgloss.Style
	Selected lipgloss.Style
	Heading  lipgloss.Style
	Body     lipgloss.Style
	Blurb    lipgloss.Style
	Badge    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Brand:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")),
		Progress: lipgloss.NewStyle().Foreground(colorMuted),
		Bonus:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6a5cff")),
		Question: lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginTop(1).MarginBottom(1),
		Option:   lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorOK).PaddingLeft(2),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).MarginTop(1),
		Body:     lipgloss.NewStyle().Foreground(colorText),
		Blurb:    lipgloss.NewStyle().Italic(true).Foreground(colorBlurb),
		Badge:    lipgloss.NewStyle().Background(colorPanel).Foreground(colorText).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(colorDanger),
		Status:   lipgloss.NewStyle().Foreground(colorOK),
	}
}
