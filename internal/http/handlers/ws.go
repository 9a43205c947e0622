package handlers

import (
	"net/http"

	"oddeven_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// фронт и бэк живут на разных доменах
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Наблюдение за игрой по websocket: только чтение состояния,
// все мутации идут через HTTP операции
func (h *Handler) Spectate(c *gin.Context) {
	gameID := c.Param("id")
	if _, err := h.GameService.State(gameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("не удалось апгрейдить соединение", "error", err, "game_id", gameID)
		return
	}

	h.Hub.Subscribe(gameID, conn)

	// сразу отправляем наблюдателю текущее состояние
	if state, err := h.GameService.State(gameID); err == nil {
		h.Hub.BroadcastState(gameID, state)
	}
}
