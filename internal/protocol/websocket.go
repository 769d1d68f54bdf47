package protocol

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// PingInterval is how often an idle websocket is pinged
	PingInterval = 30 * time.Second
	// writeWait bounds a single control frame write
	writeWait = 5 * time.Second
)

// WSConn carries messages as binary websocket frames, one message per frame
type WSConn struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*WSConn)(nil)

// NewWSConn wraps an established websocket
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn, done: make(chan struct{})}
}

// Upgrade accepts a websocket handshake on an HTTP request
func Upgrade(w http.ResponseWriter, r *http.Request) (*WSConn, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64,
		WriteBufferSize: 64,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(MaxMessageSize)
	return NewWSConn(conn), nil
}

// DialWebSocket connects to a websocket match endpoint
func DialWebSocket(ctx context.Context, url string) (*WSConn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return NewWSConn(conn), nil
}

// Send writes the message as a single binary frame
func (c *WSConn) Send(m Message) error {
	b, err := m.Encode()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

// Receive reads the next binary frame as a message
func (c *WSConn) Receive() (Message, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Message{}, fmt.Errorf("%w: %w", ErrClosed, err)
			}
			return Message{}, err
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		return Decode(data)
	}
}

// KeepAlive pings the peer until the connection is closed so that proxies
// keep it open during long turns
func (c *WSConn) KeepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *WSConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *WSConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Close sends a close frame before dropping the connection
func (c *WSConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	// the peer may already be gone
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return c.conn.Close()
}
