package views

import (
	"errors"
	"testing"

	"github.com/Cyclone1070/fschat/internal/ui/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderChat_NoMessages(t *testing.T) {
	state := models.State{Messages: []models.Message{}}
	result := RenderChat(state)
	assert.Contains(t, result, "No messages yet")
}

func TestRenderChat_WithMessages(t *testing.T) {
	// RenderChat delegates to the viewport once there is history
	vp := createTestViewport()
	vp.SetContent("Rendered Content")

	state := models.State{
		Messages: []models.Message{{Role: models.RoleUser, Content: "Hello"}},
		Viewport: vp,
	}

	result := RenderChat(state)
	assert.Contains(t, result, "Rendered Content")
}

func TestFormatChatContent_Roles(t *testing.T) {
	messages := []models.Message{
		{Role: models.RoleUser, Content: "list it"},
		{Role: models.RoleTool, Content: "[FILE] a.txt"},
		{Role: models.RoleAssistant, Content: "**done**"},
		{Role: models.RoleError, Content: "access denied"},
	}

	result := FormatChatContent(messages, 80, &MockMarkdownRenderer{})

	assert.Contains(t, result, "You: list it")
	assert.Contains(t, result, "- a.txt")
	assert.Contains(t, result, "**done**")
	assert.Contains(t, result, "Error: access denied")
}

func TestFormatChatContent_RenderFailureFallsBack(t *testing.T) {
	renderer := &MockMarkdownRenderer{
		RenderFunc: func(string, int) (string, error) { return "", errors.New("bad style") },
	}
	messages := []models.Message{{Role: models.RoleAssistant, Content: "plain reply"}}

	result := FormatChatContent(messages, 80, renderer)
	assert.Contains(t, result, "plain reply")
}
