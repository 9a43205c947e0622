package domain

import "time"

// Строка таблицы games - слепок игры для истории и восстановления
type GameRecord struct {
	ID        string     `db:"id" json:"id"`
	Stake     int64      `db:"stake" json:"stake"`
	Phase     string     `db:"phase" json:"phase"`
	WinnerID  *int64     `db:"winner_id" json:"winner_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	EndedAt   *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// Направление движения средств в эскроу
type LedgerDirection string

const (
	LedgerDeposit LedgerDirection = "deposit"
	LedgerPayout  LedgerDirection = "payout"
)

// Запись журнала эскроу, только добавление
type LedgerEntry struct {
	ID        int64                  `db:"id" json:"id"`
	GameID    string                 `db:"game_id" json:"game_id"`
	BadgeID   int64                  `db:"badge_id" json:"badge_id"`
	Direction LedgerDirection        `db:"direction" json:"direction"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
