package http

import (
	"oddeven_backend/internal/http/handlers"
	"oddeven_backend/internal/http/middleware"
	"oddeven_backend/internal/service"
	"oddeven_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает все маршруты сервиса на роутер
func RegisterRoutes(r *gin.Engine, gameService *service.GameService, hub *ws.Hub) {
	h := handlers.New(gameService, hub)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.RateLimit())
	{
		api.GET("/limits", h.StakeLimits)

		games := api.Group("/games")
		{
			games.POST("", h.CreateGame)
			games.GET("/:id", h.GameState)
			games.POST("/:id/join", h.Join)
			games.POST("/:id/guess", h.SubmitGuess)
			games.POST("/:id/withdraw", h.Withdraw)
			games.GET("/:id/total", h.TotalWagered)
			games.GET("/:id/stake", h.StakeAmount)
			games.GET("/:id/ws", h.Spectate)
		}
	}
}
