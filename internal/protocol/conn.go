package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Transport carries messages between the match server and one participant
type Transport interface {
	Send(m Message) error
	Receive() (Message, error)
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

// streamConn is the subset of net.Conn a Conn needs
type streamConn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// Conn frames messages over a byte stream such as a TCP connection
type Conn struct {
	stream streamConn
	remote string
	// mu keeps concurrent Sends from interleaving
	mu sync.Mutex
}

var _ Transport = (*Conn)(nil)

// NewConn wraps a connected stream
func NewConn(c net.Conn) *Conn {
	return &Conn{stream: c, remote: c.RemoteAddr().String()}
}

// DialTCP connects to a match server
func DialTCP(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

// Send writes one encoded message
func (c *Conn) Send(m Message) error {
	b, err := m.Encode()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.stream.Write(b)
	return err
}

// Receive reads exactly one message, blocking until it is complete
func (c *Conn) Receive() (Message, error) {
	var h header
	if _, err := io.ReadFull(c.stream, h[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Message{}, fmt.Errorf("%w: %w", ErrClosed, err)
		}
		return Message{}, err
	}
	m, payload, err := decodeHeader(h)
	if err != nil {
		return Message{}, err
	}
	if payload == 0 {
		return m, nil
	}
	var column [1]byte
	if _, err := io.ReadFull(c.stream, column[:]); err != nil {
		return Message{}, err
	}
	m.Column = int(column[0])
	return m, nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.stream.SetReadDeadline(t)
}

func (c *Conn) RemoteAddr() string {
	return c.remote
}

func (c *Conn) Close() error {
	return c.stream.Close()
}
