package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer greets, then answers every user message with an ai-message
// carrying the same content, and closes normally on "bye".
func echoServer(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(protocol.AIMessage("hello"))
		for {
			var msg protocol.Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Content == "bye" {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			_ = conn.WriteJSON(protocol.AIMessage(msg.Content))
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_SendReceive(t *testing.T) {
	c := dial(t, echoServer(t))

	greeting, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.AIMessage("hello"), greeting)

	require.NoError(t, c.Send("ping"))
	reply, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.AIMessage("ping"), reply)
}

func TestClient_NormalClose(t *testing.T) {
	c := dial(t, echoServer(t))
	_, err := c.Receive()
	require.NoError(t, err)

	require.NoError(t, c.Send("bye"))
	_, err = c.Receive()
	require.Error(t, err)
	assert.True(t, IsNormalClose(err))
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := dial(t, echoServer(t))
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestDial_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := Dial(context.Background(), url, nil)
	var dialErr *DialError
	require.ErrorAs(t, err, &dialErr)
	assert.Equal(t, url, dialErr.URL)
}
