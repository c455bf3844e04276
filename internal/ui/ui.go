package ui

import (
	"context"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/Cyclone1070/fschat/internal/ui/services"
	tea "github.com/charmbracelet/bubbletea"
)

// UI implements ChatInterface using Bubble Tea
type UI struct {
	program *tea.Program

	// Transport -> UI
	frameChan      chan protocol.Message
	disconnectChan chan error

	// UI -> Transport
	outgoingChan chan string

	readyChan chan struct{}
}

// UIChannels holds the channels for UI communication
type UIChannels struct {
	FrameChan      chan protocol.Message
	DisconnectChan chan error
	OutgoingChan   chan string
	ReadyChan      chan struct{} // Closed when the UI is ready to accept frames
}

// NewUIChannels creates a new UIChannels struct with default buffers
func NewUIChannels() *UIChannels {
	return &UIChannels{
		FrameChan:      make(chan protocol.Message, 16),
		DisconnectChan: make(chan error, 1),
		OutgoingChan:   make(chan string, 10),
		ReadyChan:      make(chan struct{}),
	}
}

// NewUI creates a new Bubble Tea UI talking to endpoint
func NewUI(
	channels *UIChannels,
	endpoint string,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	ui := &UI{
		frameChan:      channels.FrameChan,
		disconnectChan: channels.DisconnectChan,
		outgoingChan:   channels.OutgoingChan,
		readyChan:      channels.ReadyChan,
	}

	model := newBubbleTeaModel(channels, endpoint, renderer, spinnerFactory)
	ui.program = tea.NewProgram(model, tea.WithAltScreen())

	return ui
}

// Start runs the UI program until the user quits
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}

// WriteFrame hands a server frame to the UI
func (u *UI) WriteFrame(ctx context.Context, msg protocol.Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case u.frameChan <- msg:
		return nil
	}
}

// WriteDisconnected reports a dropped connection. Only the first report is kept.
func (u *UI) WriteDisconnected(err error) {
	select {
	case u.disconnectChan <- err:
	default:
	}
}

// Outgoing returns the channel of user messages
func (u *UI) Outgoing() <-chan string {
	return u.outgoingChan
}

// Ready returns a channel that is closed when the UI is ready to accept frames
func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
