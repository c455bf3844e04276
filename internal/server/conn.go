package server

import (
	"sync"
	"time"

	"github.com/Cyclone1070/fschat/internal/protocol"
	"github.com/gorilla/websocket"
)

// connOptions tunes a websocket connection.
type connOptions struct {
	ReadLimit    int64
	PingInterval time.Duration
	WriteTimeout time.Duration
}

// pongWait is how long the peer may stay silent, pongs included.
func (o connOptions) pongWait() time.Duration {
	return o.PingInterval * 2
}

// wsConn adapts a gorilla websocket to session.Conn. Data frames are written
// only by the session loop; the keepalive pinger uses WriteControl, which
// gorilla allows concurrently with other writers.
type wsConn struct {
	conn      *websocket.Conn
	opts      connOptions
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn, opts connOptions) *wsConn {
	c := &wsConn{conn: conn, opts: opts, done: make(chan struct{})}

	if opts.ReadLimit > 0 {
		conn.SetReadLimit(opts.ReadLimit)
	}
	if opts.PingInterval > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(opts.pongWait()))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(opts.pongWait()))
		})
		go c.keepalive()
	}

	return c
}

// ReadMessage returns the next text or binary frame.
func (c *wsConn) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if c.opts.PingInterval > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.pongWait()))
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// WriteMessage sends msg as a JSON text frame.
func (c *wsConn) WriteMessage(msg protocol.Message) error {
	if c.opts.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	}
	return c.conn.WriteJSON(msg)
}

// Close sends a normal close frame and releases the connection. It is safe to
// call more than once.
func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) keepalive() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	wait := c.opts.WriteTimeout
	if wait <= 0 {
		wait = c.opts.PingInterval
	}

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wait)); err != nil {
				return
			}
		}
	}
}
