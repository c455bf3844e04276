package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/ui/models"
	"github.com/Cyclone1070/fschat/internal/ui/services"
	"github.com/Cyclone1070/fschat/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "Available commands:\n" +
	"- /clear - Clear the transcript\n" +
	"- /help - Show this help\n" +
	"- /quit - Exit\n\n" +
	"Send a raw tool call as JSON, for example:\n" +
	"`{\"tool\": \"list_directory\", \"params\": {\"path\": \".\"}}`"

// chromeHeight is the number of rows taken by the input box and status bar.
const chromeHeight = 5

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	// Dependencies
	renderer services.MarkdownRenderer

	// Transport -> UI
	frameChan      <-chan protocol.Message
	disconnectChan <-chan error

	// UI -> Transport
	outgoingChan chan<- string

	// Ready signal
	readyChan chan<- struct{}
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	channels *UIChannels,
	endpoint string,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message or /help..."
	ti.Focus()

	vp := viewport.New(80, 20)

	return BubbleTeaModel{
		state: models.State{
			Input:         ti,
			Viewport:      vp,
			Spinner:       spinnerFactory(),
			Messages:      []models.Message{},
			CanSubmit:     true,
			StatusPhase:   "ready",
			StatusMessage: "Connected",
			Endpoint:      endpoint,
			Connected:     true,
		},
		renderer:       renderer,
		frameChan:      channels.FrameChan,
		disconnectChan: channels.DisconnectChan,
		outgoingChan:   channels.OutgoingChan,
		readyChan:      channels.ReadyChan,
	}
}

// Internal messages
type tickMsg time.Time
type frameReceivedMsg protocol.Message
type disconnectedMsg struct{ err error }

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	// Signal that UI is ready
	if m.readyChan != nil {
		close(m.readyChan)
	}

	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
		listenForFrames(m.frameChan),
		listenForDisconnect(m.disconnectChan),
	)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-chromeHeight, 1)
		m.state.Input.Width = max(msg.Width-6, 10)
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case frameReceivedMsg:
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    roleFor(protocol.Message(msg).Type),
			Content: msg.Content,
		})
		m.updateViewport()
		if m.state.Connected {
			m.state.CanSubmit = true
			m.state.StatusPhase = "ready"
			m.state.StatusMessage = ""
		}
		return m, listenForFrames(m.frameChan)

	case disconnectedMsg:
		m.state.Connected = false
		m.state.CanSubmit = false
		m.state.StatusPhase = "error"
		m.state.StatusMessage = "Disconnected"
		text := "Connection closed. Restart fschat to reconnect."
		if msg.err != nil {
			text = fmt.Sprintf("Connection lost: %v", msg.err)
		}
		m.state.Messages = append(m.state.Messages, models.Message{Role: models.RoleError, Content: text})
		m.updateViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if input == "" {
			return m, nil
		}
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}
		if !m.state.CanSubmit {
			return m, nil
		}

		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    models.RoleUser,
			Content: input,
		})
		m.updateViewport()

		m.outgoingChan <- input
		m.state.Input.SetValue("")
		m.state.CanSubmit = false
		m.state.StatusPhase = "thinking"
		m.state.StatusMessage = services.DescribeInput(input)
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	m.state.Input.SetValue("")

	switch parts[0] {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/clear":
		m.state.Messages = []models.Message{}
		m.updateViewport()
	case "/help":
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    models.RoleAssistant,
			Content: helpText,
		})
		m.updateViewport()
	default:
		m.state.Messages = append(m.state.Messages, models.Message{
			Role:    models.RoleError,
			Content: fmt.Sprintf("Unknown command %s. Type /help for a list.", parts[0]),
		})
		m.updateViewport()
	}
	return m, nil
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, m.state.Width-4, m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

func roleFor(t protocol.MessageType) models.Role {
	switch t {
	case protocol.TypeToolOutput:
		return models.RoleTool
	case protocol.TypeError:
		return models.RoleError
	case protocol.TypeUserMessage:
		return models.RoleUser
	default:
		return models.RoleAssistant
	}
}

// Helper commands for listening to channels
func listenForFrames(ch <-chan protocol.Message) tea.Cmd {
	return func() tea.Msg {
		return frameReceivedMsg(<-ch)
	}
}

func listenForDisconnect(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return disconnectedMsg{err: <-ch}
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
