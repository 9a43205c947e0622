package repository

import (
	"context"
	"time"

	"oddeven_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// создает строку новой игры
func (r *GameRepository) Create(ctx context.Context, g *domain.GameRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO games (id, stake, phase)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, g.ID, g.Stake, g.Phase).Scan(&g.CreatedAt)
}

// обновляет фазу игры
func (r *GameRepository) UpdatePhase(ctx context.Context, id, phase string) error {
	_, err := r.db.Exec(ctx, `UPDATE games SET phase = $2 WHERE id = $1`, id, phase)
	return err
}

// фиксирует победителя
func (r *GameRepository) SetWinner(ctx context.Context, id string, winnerID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE games SET winner_id = $2 WHERE id = $1`, id, winnerID)
	return err
}

// помечает игру завершенной
func (r *GameRepository) MarkEnded(ctx context.Context, id string, endedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE games SET phase = 'ended', ended_at = $2 WHERE id = $1
	`, id, endedAt)
	return err
}

// получает игру по id
func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.GameRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, stake, phase, winner_id, created_at, ended_at
		FROM games
		WHERE id = $1
	`, id)

	var g domain.GameRecord
	if err := row.Scan(&g.ID, &g.Stake, &g.Phase, &g.WinnerID, &g.CreatedAt, &g.EndedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
