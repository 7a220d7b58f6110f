package ws

import (
	"time"

	"seabattle_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 30 * time.Second
	pingPeriod   = 25 * time.Second
	maxMsgSize   = 8192
	sendBuffSize = 256
)

// Client is one connected player. Outbound messages go through Send so
// the hub never blocks on a slow connection.
type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
	Send     chan []byte

	hub *Hub
}

func NewClient(playerID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffSize),
		hub:      hub,
	}
}

// Run registers the client and drives the read loop until disconnect.
func (c *Client) Run() {
	go c.writePump()

	c.hub.Register(c)
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.OnDisconnect(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMsgSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "player", c.PlayerID, "error", err)
			return
		}
		c.hub.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "player", c.PlayerID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
