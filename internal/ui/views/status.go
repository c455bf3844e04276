package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/fschat/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var left string

	switch s.StatusPhase {
	case "thinking":
		dots := strings.Repeat(".", s.DotCount)
		msg := s.StatusMessage
		if msg == "" {
			msg = "Waiting for reply"
		}
		left = StatusThinkingStyle.Render(fmt.Sprintf("%s %s%s", s.Spinner.View(), msg, dots))
	case "error":
		left = StatusErrorStyle.Render("✘ " + s.StatusMessage)
	default:
		status := "Ready"
		if s.StatusMessage != "" {
			status = s.StatusMessage
		}
		left = StatusDefaultStyle.Render(status)
	}

	if s.Endpoint == "" {
		return left
	}

	marker := "●"
	if !s.Connected {
		marker = "○"
	}
	right := StatusEndpointStyle.Render(marker + " " + s.Endpoint)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
