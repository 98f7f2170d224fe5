package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
)

type Client struct {
	UID      string
	Username string
	RoomCode string
	Conn     *websocket.Conn
	Send     chan []byte

	closeOnce sync.Once
}

func (c *Client) Start(h *Hub) {
	go c.writePump()
	go c.readPump(h)
}

// CloseSlow force-closes the connection; the read pump then unregisters.
func (c *Client) CloseSlow() {
	c.closeOnce.Do(func() {
		_ = c.Conn.Close()
	})
}

// writePump: take data from c.Send and send to socket + ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			if _, err := w.Write(msg); err != nil {
				_ = w.Close()
				return
			}

			_ = w.Close()

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump: discard inbound frames, handle pong for keep-alive. The
// subscription is read-only from the client's side; sends go over HTTP.
func (c *Client) readPump(h *Hub) {
	// Send is never closed: a broadcast may race the teardown, and an
	// unreferenced open channel is cheaper than a send-on-closed panic.
	defer func() {
		h.Unregister(c.RoomCode, c)
		c.CloseSlow()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
