// Package tui provides the interactive terminal explorer.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // subtitles, active tab
	ColorAccent    = lipgloss.Color("#ffe66d") // Sanskrit text
	ColorMuted     = lipgloss.Color("#666666") // help text
	ColorSuccess   = lipgloss.Color("#a8e6cf")
	ColorBg        = lipgloss.Color("#1a1a2e")
	ColorBorder    = lipgloss.Color("#3d5a80")
)

// Pane styles
var (
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PaneFocusedStyle = PaneStyle.
				BorderForeground(ColorSecondary)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	CopiedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// Help overlay styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Width(12)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FAEE"))

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2).
			Width(52)
)
