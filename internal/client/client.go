// Package client is the WebSocket side of the TUI: it owns the
// connection, decodes inbound messages into a channel the UI drains,
// and exposes one convenience method per request type.
package client

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ErrClosed is returned by Receive after the connection is gone.
var ErrClosed = errors.New("client: connection closed")

// Client is a connection to the campfire server.
type Client struct {
	ServerURL string

	// ConnID is assigned by the server on connect; it is how this
	// client recognizes itself in member lists.
	ConnID string

	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	OnClose func()
	OnError func(error)

	mu     sync.Mutex
	closed bool
}

// NewClient prepares a client for the given ws:// URL.
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		send:      make(chan []byte, 64),
		receive:   make(chan *protocol.Message, 64),
		done:      make(chan struct{}),
	}
}

// Connect dials the server and starts the pumps.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// Receive blocks until the next server message or connection loss.
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg, ok := <-c.receive:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	case <-c.done:
		return nil, ErrClosed
	}
}

// SendMessage queues a message for the server.
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("client: send buffer full")
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
