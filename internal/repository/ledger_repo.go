package repository

import (
	"context"
	"encoding/json"

	"oddeven_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// добавляет запись журнала эскроу
func (r *LedgerRepository) Create(ctx context.Context, e *domain.LedgerEntry) error {
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO escrow_ledger (game_id, badge_id, direction, amount, meta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.GameID, e.BadgeID, e.Direction, e.Amount, meta).Scan(&e.ID, &e.CreatedAt)
}

// возвращает записи журнала по игре
func (r *LedgerRepository) GetByGameID(ctx context.Context, gameID string, limit int) ([]*domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, badge_id, direction, amount, meta, created_at
		FROM escrow_ledger
		WHERE game_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.GameID, &e.BadgeID, &e.Direction, &e.Amount, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Meta)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
