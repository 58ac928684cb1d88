package ws

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
)

// message is a control message exchanged with a client
type message struct {
	Type     string      `json:"type"`
	ClientID id.ClientID `json:"client_id,omitempty"`
	Data     any         `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type client struct {
	id   id.ClientID
	hub  *Hub
	conn *websocket.Conn

	mu       sync.Mutex
	outbound chan []byte
	done     bool
}

func newClient(h *Hub, conn *websocket.Conn) *client {
	return &client{
		id:       id.NewClientID(),
		hub:      h,
		conn:     conn,
		outbound: make(chan []byte, sendBuffer),
	}
}

// enqueue queues data without blocking; false means the buffer is full
func (c *client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return true
	}
	select {
	case c.outbound <- data:
		return true
	default:
		return false
	}
}

func (c *client) send(msg message) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return
	}
	if c.enqueue(data) {
		c.hub.record("out", msg.Type)
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.done = true
	close(c.outbound)
}

// readPump handles client requests until the connection fails
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("WebSocket read error", zap.String("client_id", c.id.String()), zap.Error(err))
			}
			return
		}

		var msg message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			c.send(message{Type: "error", Error: "invalid message"})
			continue
		}
		c.hub.record("in", msg.Type)

		switch msg.Type {
		case "ping":
			c.send(message{Type: "pong"})
		case "status":
			if c.hub.status == nil {
				c.send(message{Type: "error", Error: "status unavailable"})
				continue
			}
			c.send(message{Type: "status", Data: c.hub.status()})
		default:
			c.send(message{Type: "error", Error: "unknown message type"})
		}
	}
}

// writePump writes queued messages and keeps the connection alive
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.outbound:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
