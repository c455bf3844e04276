package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/ui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestModel() (BubbleTeaModel, *UIChannels) {
	channels := NewUIChannels()
	return newBubbleTeaModel(channels, "ws://localhost:3000/ws", &MockMarkdownRenderer{}, mockSpinnerFactory), channels
}

func update(t *testing.T, m BubbleTeaModel, msg tea.Msg) (BubbleTeaModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(BubbleTeaModel)
	require.True(t, ok)
	return model, cmd
}

func TestInit_ClosesReady(t *testing.T) {
	model, channels := createTestModel()
	cmd := model.Init()
	assert.NotNil(t, cmd)

	select {
	case <-channels.ReadyChan:
	case <-time.After(100 * time.Millisecond):
		t.Error("ready channel not closed")
	}
}

func TestUpdate_KeyEnter_SendsMessage(t *testing.T) {
	model, channels := createTestModel()
	model.state.Input.SetValue("hello")

	m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "", m.state.Input.Value())
	assert.False(t, m.state.CanSubmit)
	assert.Equal(t, "thinking", m.state.StatusPhase)
	require.Len(t, m.state.Messages, 1)
	assert.Equal(t, models.RoleUser, m.state.Messages[0].Role)
	assert.Equal(t, "hello", m.state.Messages[0].Content)

	select {
	case out := <-channels.OutgoingChan:
		assert.Equal(t, "hello", out)
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for outgoing message")
	}
}

func TestUpdate_KeyEnter_ToolCallStatus(t *testing.T) {
	model, channels := createTestModel()
	model.state.Input.SetValue(`{"tool":"read_file","params":{"path":"go.mod"}}`)

	m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "ReadFile go.mod", m.state.StatusMessage)
	<-channels.OutgoingChan
}

func TestUpdate_KeyEnter_BlockedWhilePending(t *testing.T) {
	model, channels := createTestModel()
	model.state.CanSubmit = false
	model.state.Input.SetValue("again")

	m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "again", m.state.Input.Value())
	assert.Empty(t, m.state.Messages)
	assert.Len(t, channels.OutgoingChan, 0)
}

func TestUpdate_KeyEnter_EmptyIgnored(t *testing.T) {
	model, channels := createTestModel()
	model.state.Input.SetValue("   ")

	m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.state.CanSubmit)
	assert.Len(t, channels.OutgoingChan, 0)
}

func TestUpdate_FrameReceived(t *testing.T) {
	tests := []struct {
		name  string
		frame protocol.Message
		role  models.Role
	}{
		{"ai message", protocol.AIMessage("hi"), models.RoleAssistant},
		{"tool output", protocol.ToolOutput("[FILE] a.txt"), models.RoleTool},
		{"error", protocol.Error("access denied"), models.RoleError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, _ := createTestModel()
			model.state.CanSubmit = false
			model.state.StatusPhase = "thinking"

			m, cmd := update(t, model, frameReceivedMsg(tt.frame))

			assert.NotNil(t, cmd, "keeps listening for frames")
			require.Len(t, m.state.Messages, 1)
			assert.Equal(t, tt.role, m.state.Messages[0].Role)
			assert.Equal(t, tt.frame.Content, m.state.Messages[0].Content)
			assert.True(t, m.state.CanSubmit)
			assert.Equal(t, "ready", m.state.StatusPhase)
		})
	}
}

func TestUpdate_Disconnected(t *testing.T) {
	model, _ := createTestModel()

	m, _ := update(t, model, disconnectedMsg{err: errors.New("eof")})

	assert.False(t, m.state.Connected)
	assert.False(t, m.state.CanSubmit)
	assert.Equal(t, "error", m.state.StatusPhase)
	require.Len(t, m.state.Messages, 1)
	assert.Equal(t, models.RoleError, m.state.Messages[0].Role)
	assert.Contains(t, m.state.Messages[0].Content, "eof")

	// A late frame is shown but does not re-enable input
	m, _ = update(t, m, frameReceivedMsg(protocol.AIMessage("late")))
	assert.False(t, m.state.CanSubmit)
	assert.Len(t, m.state.Messages, 2)
}

func TestUpdate_SlashCommands(t *testing.T) {
	model, channels := createTestModel()
	model.state.Messages = []models.Message{{Role: models.RoleUser, Content: "old"}}

	model.state.Input.SetValue("/help")
	m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.state.Messages, 2)
	assert.Contains(t, m.state.Messages[1].Content, "Available commands")
	assert.Equal(t, "", m.state.Input.Value())

	m.state.Input.SetValue("/clear")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.state.Messages)

	m.state.Input.SetValue("/bogus")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.state.Messages, 1)
	assert.Equal(t, models.RoleError, m.state.Messages[0].Role)

	assert.Len(t, channels.OutgoingChan, 0, "commands are never sent to the server")
}

func TestUpdate_Quit(t *testing.T) {
	model, _ := createTestModel()

	_, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	model.state.Input.SetValue("/quit")
	_, cmd = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	model, _ := createTestModel()

	m, _ := update(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, 100, m.state.Width)
	assert.Equal(t, 40, m.state.Height)
	assert.Equal(t, 100, m.state.Viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.state.Viewport.Height)
}

func TestUpdate_TickAnimatesDots(t *testing.T) {
	model, _ := createTestModel()
	model.state.DotCount = 3

	m, cmd := update(t, model, tickMsg(time.Now()))

	assert.Equal(t, 0, m.state.DotCount)
	assert.NotNil(t, cmd)
}

func TestView_ShowsTranscript(t *testing.T) {
	model, _ := createTestModel()
	m, _ := update(t, model, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, frameReceivedMsg(protocol.AIMessage("Hello there")))

	assert.Contains(t, m.View(), "Hello there")
}
