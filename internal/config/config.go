package config

import (
	"os"
	"strconv"
	"strings"

	"oddeven_backend/internal/logger"

	"github.com/joho/godotenv"
)

// Конфигурация сервиса, читается из окружения (.env для локальной разработки)
type Config struct {
	AppPort       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// запросов в минуту с одного ip
	RateLimitPerMin int64

	// лимиты ставки при создании игры
	MinStake int64
	MaxStake int64

	// админ бот
	BotToken         string
	AdminBotEnabled  bool
	AdminTelegramIDs []int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env не найден, используем переменные окружения")
	}

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RateLimitPerMin: getEnvInt64("RATE_LIMIT_PER_MIN", 60),
		MinStake:        getEnvInt64("MIN_STAKE", 10),
		MaxStake:        getEnvInt64("MAX_STAKE", 100000),
		BotToken:        os.Getenv("BOT_TOKEN"),
	}

	cfg.AdminBotEnabled = os.Getenv("ADMIN_BOT_ENABLED") == "true"

	// список telegram id админов через запятую
	for _, part := range strings.Split(os.Getenv("ADMIN_TELEGRAM_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			logger.Warn("некорректный admin telegram id, пропускаем", "value", part)
			continue
		}
		cfg.AdminTelegramIDs = append(cfg.AdminTelegramIDs, id)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
