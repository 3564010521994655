package livesync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// MaxMessageBytes caps a single incoming frame. It matches the publish
	// body limit of the HTTP API.
	MaxMessageBytes = 1 << 20
)

// WebSocketChannel adapts a gorilla connection to Channel. Writes are
// serialised because a gorilla connection allows only one writer.
type WebSocketChannel struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// NewWebSocketChannel wraps conn and caps its incoming frames at
// MaxMessageBytes. A larger frame closes the connection.
func NewWebSocketChannel(conn *websocket.Conn) *WebSocketChannel {
	conn.SetReadLimit(MaxMessageBytes)
	return &WebSocketChannel{conn: conn}
}

// Dial connects to a relay endpoint such as /api/v1/sync/{session}?role=renderer.
func Dial(ctx context.Context, url string, header http.Header) (*WebSocketChannel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return NewWebSocketChannel(conn), nil
}

func (c *WebSocketChannel) Send(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	return c.sendRaw(ctx, data)
}

func (c *WebSocketChannel) sendRaw(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Receive blocks for the next message. Cancelling ctx unblocks the read but
// leaves the connection unusable, so it is only meant for teardown.
func (c *WebSocketChannel) Receive(ctx context.Context) (Message, error) {
	data, err := c.readRaw(ctx)
	if err != nil {
		return Message{}, err
	}
	return Decode(data)
}

func (c *WebSocketChannel) readRaw(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

// Close sends a close frame when possible and closes the connection.
func (c *WebSocketChannel) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
