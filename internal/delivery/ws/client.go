package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is how many frames may queue for a viewer before it is dropped
	sendBuffer = 256
)

// Client represents a single websocket connection viewing a galaxy
type Client struct {
	ID     string
	Viewer *domain.Viewer
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte

	readLimit int64
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, viewer *domain.Viewer) *Client {
	return &Client{
		ID:        viewer.ID.String(),
		Viewer:    viewer,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		readLimit: domain.MaxMessageSize,
	}
}

// SetReadLimit overrides the maximum inbound message size
func (c *Client) SetReadLimit(n int64) {
	if n > 0 {
		c.readLimit = n
	}
}

// incoming is the envelope every viewer intent arrives in
type incoming struct {
	Type    domain.MessageType `json:"type"`
	Payload json.RawMessage    `json:"payload"`
}

// ReadPump pumps intents from the websocket connection to the hub loop
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("Viewer connection closed unexpectedly")
			}
			break
		}
		c.dispatch(message)
	}
}

// dispatch decodes one inbound message and queues it on the hub loop
func (c *Client) dispatch(message []byte) bool {
	var in incoming
	if err := json.Unmarshal(message, &in); err != nil || in.Type == "" {
		return false
	}
	c.hub.post(func() { c.hub.handleIntent(c, in.Type, in.Payload) })
	return true
}

// WritePump pumps messages from the hub to the websocket connection
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
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

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
