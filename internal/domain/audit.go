package domain

import "time"

// Логирование важных действий
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	GameID    string                 `db:"game_id" json:"game_id"`
	BadgeID   int64                  `db:"badge_id" json:"badge_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Категории совершенных действий
const (
	AuditCategoryGame    = "game"
	AuditCategoryPayment = "payment"
)

const (
	AuditActionGameCreate = "game_create"
	AuditActionJoin       = "join"
	AuditActionGuess      = "guess"
	AuditActionPayout     = "payout"
)
