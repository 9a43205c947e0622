package ws

import (
	"time"

	"oddeven_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	gameID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

func newClient(gameID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, 64),
		hub:    hub,
	}
}

// read: входящие данные наблюдателя игнорируем, читаем только ради
// pong-обработки и обнаружения разрыва
func (c *Client) readPump() {
	defer func() {
		c.hub.unsubscribe(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug("наблюдатель отключился", "game_id", c.gameID, "error", err)
			return
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ошибка записи наблюдателю", "game_id", c.gameID, "error", err)
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
