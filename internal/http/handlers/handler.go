package handlers

import (
	"strings"

	"oddeven_backend/internal/service"
	"oddeven_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	GameService *service.GameService
	Hub         *ws.Hub
}

func New(gameService *service.GameService, hub *ws.Hub) *Handler {
	return &Handler{
		GameService: gameService,
		Hub:         hub,
	}
}

// извлекает бейдж-токен из заголовка Authorization
func badgeProof(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	proof := strings.TrimPrefix(auth, "Bearer ")
	if proof == "" {
		return "", false
	}
	return proof, true
}
