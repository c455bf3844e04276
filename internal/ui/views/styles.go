package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")
	ColorMuted   = lipgloss.Color("241")
	ColorError   = lipgloss.Color("196")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")

	UserMessageStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				PaddingLeft(1)

	AssistantMessageStyle = lipgloss.NewStyle().
				PaddingLeft(1)

	ToolMessageStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorMuted).
				PaddingLeft(1)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				PaddingLeft(1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	StatusDefaultStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).PaddingLeft(1)
	StatusThinkingStyle = lipgloss.NewStyle().Foreground(ColorWarning).PaddingLeft(1)
	StatusErrorStyle    = lipgloss.NewStyle().Foreground(ColorError).PaddingLeft(1)
	StatusEndpointStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
