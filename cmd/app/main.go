package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oddeven_backend/internal/badge"
	"oddeven_backend/internal/bot"
	"oddeven_backend/internal/config"
	"oddeven_backend/internal/db"
	httpServer "oddeven_backend/internal/http"
	"oddeven_backend/internal/http/middleware"
	"oddeven_backend/internal/logger"
	"oddeven_backend/internal/service"
	"oddeven_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	cfg := config.Load()

	// без DATABASE_URL работаем только в памяти, без журнала игр
	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
	} else {
		log.Warn("DATABASE_URL не задан, игры не будут сохраняться")
	}

	issuer, err := badge.NewIssuer()
	if err != nil {
		logger.Fatal("не удалось создать подписанта бейджей", "error", err)
	}

	gameService := service.NewGameService(dbPool, issuer, service.StakeLimits{
		MinStake: cfg.MinStake,
		MaxStake: cfg.MaxStake,
	})

	hub := ws.NewHub()
	gameService.SetBroadcaster(hub)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RateLimitPerMin)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, gameService, hub)

	// Запуск админ бота ПЕРЕД HTTP сервером чтобы уведомления были настроены
	var adminBot *bot.AdminBot
	if cfg.AdminBotEnabled && cfg.BotToken != "" && len(cfg.AdminTelegramIDs) > 0 {
		adminBot, err = bot.NewAdminBot(cfg.BotToken, gameService, cfg.AdminTelegramIDs)
		if err != nil {
			log.Error("failed to start admin bot", "error", err)
		} else {
			gameService.SetPayoutNotifier(adminBot)
			go adminBot.Start()
			log.Info("admin bot started", "admin_ids", cfg.AdminTelegramIDs)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Плавная остановка бота
	if adminBot != nil {
		adminBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
