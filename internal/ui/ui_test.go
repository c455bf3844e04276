package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockMarkdownRenderer struct {
	RenderFunc func(string, int) (string, error)
}

func (m *MockMarkdownRenderer) Render(content string, width int) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(content, width)
	}
	return content, nil
}

func mockSpinnerFactory() spinner.Model {
	return spinner.New()
}

func TestWriteFrame_DeliversInOrder(t *testing.T) {
	channels := NewUIChannels()
	ui := NewUI(channels, "ws://test/ws", &MockMarkdownRenderer{}, mockSpinnerFactory)
	ctx := context.Background()

	require.NoError(t, ui.WriteFrame(ctx, protocol.AIMessage("one")))
	require.NoError(t, ui.WriteFrame(ctx, protocol.ToolOutput("two")))

	assert.Equal(t, protocol.AIMessage("one"), <-channels.FrameChan)
	assert.Equal(t, protocol.ToolOutput("two"), <-channels.FrameChan)
}

func TestWriteFrame_ContextCancelled(t *testing.T) {
	channels := &UIChannels{
		FrameChan:      make(chan protocol.Message), // unbuffered, nobody reading
		DisconnectChan: make(chan error, 1),
		OutgoingChan:   make(chan string, 1),
		ReadyChan:      make(chan struct{}),
	}
	ui := NewUI(channels, "", &MockMarkdownRenderer{}, mockSpinnerFactory)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := ui.WriteFrame(ctx, protocol.AIMessage("lost"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDisconnected_KeepsFirst(t *testing.T) {
	channels := NewUIChannels()
	ui := NewUI(channels, "", &MockMarkdownRenderer{}, mockSpinnerFactory)

	first := errors.New("first")
	ui.WriteDisconnected(first)
	ui.WriteDisconnected(errors.New("second")) // must not block

	assert.Equal(t, first, <-channels.DisconnectChan)
}

func TestOutgoingAndReady(t *testing.T) {
	channels := NewUIChannels()
	ui := NewUI(channels, "", &MockMarkdownRenderer{}, mockSpinnerFactory)

	channels.OutgoingChan <- "hello"
	assert.Equal(t, "hello", <-ui.Outgoing())

	select {
	case <-ui.Ready():
		t.Fatal("ready before Init")
	default:
	}
}

// Compile-time check that UI implements ChatInterface
var _ ChatInterface = (*UI)(nil)
