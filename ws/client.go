package ws

import (
	"github.com/gorilla/websocket"

	"braindump_backend/internal/logger"
)

// Client is one websocket connection belonging to one user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan any

	manager *Manager
}

// readPump drains inbound frames. The channel is server-push only, so
// client frames are discarded; reading is still required to notice the
// close handshake and connection errors.
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("ws read error", "user_id", c.UserID)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.WithError(err).Warn("ws write error", "user_id", c.UserID)
			return
		}
	}
	// Send channel closed by the manager: finish the close handshake.
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
