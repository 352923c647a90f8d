package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"faithlink/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize leaves headroom for a 5000-character message plus
	// the frame envelope, with multibyte text.
	maxMessageSize = 32768
)

// WebSocketClient implements chathub.Client over a gorilla/websocket
// connection. The identity fields are set once at handshake time and
// never change for the connection's lifetime.
type WebSocketClient struct {
	UserID string
	Role   string
	Name   string

	Conn *websocket.Conn
	Hub  *ManagerService
	Send chan models.Event

	closeOnce sync.Once
}

func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetRole() string                     { return c.Role }
func (c *WebSocketClient) GetName() string                     { return c.Name }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the send channel, which stops the write pump and closes the
// connection; the read pump then exits on its own.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from %s: %v", c.UserID, err)
			}
			break
		}

		var frame models.InboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("bad frame from client %s: %v", c.UserID, err)
			continue
		}

		c.Hub.EventCh <- InboundEvent{Client: c, Name: frame.Name, Data: frame.Data}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("error encoding event for %s: %v", c.UserID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
