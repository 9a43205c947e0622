package repository

import (
	"context"
	"encoding/json"

	"oddeven_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// создает запись в журнале аудита
func (r *AuditRepository) Create(ctx context.Context, l *domain.AuditLog) error {
	details, err := json.Marshal(l.Details)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO audit_log (game_id, badge_id, action, category, details, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, l.GameID, l.BadgeID, l.Action, l.Category, details, l.IP).Scan(&l.ID, &l.CreatedAt)
}
