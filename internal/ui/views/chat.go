package views

import (
	"strings"

	"github.com/Cyclone1070/fschat/internal/ui/models"
	"github.com/Cyclone1070/fschat/internal/ui/services"
)

// RenderChat renders the message history
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return "No messages yet. Type a message to start."
	}
	return s.Viewport.View()
}

// FormatChatContent formats the messages for the viewport
func FormatChatContent(messages []models.Message, width int, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			lines = append(lines, UserMessageStyle.Render("You: "+msg.Content))
		case models.RoleError:
			lines = append(lines, ErrorMessageStyle.Render("Error: "+msg.Content))
		case models.RoleTool:
			lines = append(lines, ToolMessageStyle.Render(renderOrPlain(services.RenderToolOutput(msg.Content), width, renderer)))
		default:
			lines = append(lines, AssistantMessageStyle.Render(renderOrPlain(msg.Content, width, renderer)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderOrPlain falls back to the raw text when markdown rendering fails.
func renderOrPlain(content string, width int, renderer services.MarkdownRenderer) string {
	rendered, err := services.RenderMarkdown(content, width, renderer)
	if err != nil {
		return content
	}
	return rendered
}
