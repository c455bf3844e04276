// Package client is the websocket side of the chat protocol used by the
// terminal UI.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/gorilla/websocket"
)

const closeGrace = time.Second

// Client is a connection to a chat server. Send and Receive may be called from
// different goroutines.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// Dial connects to the server at url.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, &DialError{URL: url, Cause: err}
	}
	return &Client{conn: conn}, nil
}

// Send sends content as a user message.
func (c *Client) Send(content string) error {
	data, err := protocol.UserMessage(content).Encode()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Receive blocks for the next server frame.
func (c *Client) Receive() (protocol.Message, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return protocol.Message{}, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return protocol.Message{}, fmt.Errorf("decode server frame: %w", err)
		}
		return msg, nil
	}
}

// Close says goodbye and drops the connection.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		err = c.conn.Close()
	})
	return err
}

// IsNormalClose reports whether err is the server ending the conversation
// cleanly.
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
