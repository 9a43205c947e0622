package db

import (
	"context"
	"time"

	"oddeven_backend/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений к postgres и проверяет его пингом
func Connect(databaseURL string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("не удалось создать пул соединений", "error", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("база данных недоступна", "error", err)
	}

	logger.Info("подключение к базе данных установлено")
	return pool
}
