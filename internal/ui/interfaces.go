package ui

import (
	"context"

	"github.com/Cyclone1070/fschat/internal/protocol"
)

// ChatInterface is what the transport loop needs from the terminal UI.
//
// Frames written by the loop are shown in arrival order. Text the user
// submits appears on Outgoing, one entry per message.
type ChatInterface interface {
	// WriteFrame shows a server frame. It blocks until the UI accepts it or
	// ctx is cancelled.
	WriteFrame(ctx context.Context, msg protocol.Message) error

	// WriteDisconnected reports that the connection is gone.
	WriteDisconnected(err error)

	// Outgoing yields user messages to send to the server.
	Outgoing() <-chan string

	// Ready is closed once the UI accepts frames.
	Ready() <-chan struct{}
}
