package views

import (
	"github.com/Cyclone1070/fschat/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s),
		RenderInput(s),
		RenderStatus(s),
	)
}
