package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/campfire-trpg/campfire/internal/protocol"
	"github.com/campfire-trpg/campfire/internal/protocol/codec"
)

const (
	// Write timeout per frame.
	writeWait = 10 * time.Second

	// Read deadline, refreshed on every pong.
	pongWait = 60 * time.Second

	// Ping interval, must stay under pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Character sheets ride in the payload, so allow a generous frame.
	maxMessageSize = 64 * 1024
)

// Client is one connected player.
type Client struct {
	ID     string // connection id, assigned at upgrade
	Name   string // display name, set by create/join
	RoomID string // current room code, "" when in the lobby
	IP     string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient wraps an upgraded connection.
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// ReadPump decodes inbound frames and hands them to the handler.
// It owns the disconnect path: when the read loop ends, for any reason,
// the client leaves its room and is unregistered.
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("read error from %s: %v", c.ID, err)
			}
			break
		}

		msg, err := codec.Decode(message)
		if err != nil {
			log.Printf("decode error from %s: %v", c.ID, err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump drains the send channel and keeps the connection alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for delivery. A client that cannot drain
// its buffer is disconnected rather than allowed to stall broadcasts.
func (c *Client) SendMessage(msg *protocol.Message) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	c.mu.RUnlock()

	data, err := codec.Encode(msg)
	if err != nil {
		log.Printf("encode error: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("send buffer full, dropping client %s", c.ID)
		c.Close()
	}
}

// handleDisconnect runs the leave path, drops the registration and
// frees the connection slot taken at admission.
func (c *Client) handleDisconnect() {
	c.server.handler.HandleDisconnect(c)
	c.server.unregisterClient(c)
	<-c.server.semaphore
}

// Close marks the client closed and wakes the write pump.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID returns the connection id.
func (c *Client) GetID() string { return c.ID }

// GetName returns the display name.
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name
}

// SetName updates the display name.
func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

// GetRoom returns the current room code.
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomID
}

// SetRoom records the current room code.
func (c *Client) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomID = roomID
}
