package service

import (
	"context"

	"oddeven_backend/internal/domain"
	"oddeven_backend/internal/logger"
	"oddeven_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// обрабатывает логирование аудита
type AuditService struct {
	repo *repository.AuditRepository
}

// создает новый сервис аудита
func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// создает новую запись в журнале аудита
func (s *AuditService) Log(ctx context.Context, gameID string, badgeID uint64, action, category string, details map[string]interface{}) {
	l := &domain.AuditLog{
		GameID:   gameID,
		BadgeID:  int64(badgeID),
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		logger.Error("не удалось создать запись аудита", "error", err, "action", action, "game_id", gameID)
	}
}

// логирует создание игры
func (s *AuditService) LogGameCreate(ctx context.Context, gameID string, stake int64) {
	s.Log(ctx, gameID, 0, domain.AuditActionGameCreate, domain.AuditCategoryGame, map[string]interface{}{
		"stake": stake,
	})
}

// логирует вход участника
func (s *AuditService) LogJoin(ctx context.Context, gameID string, badgeID uint64, stake int64) {
	s.Log(ctx, gameID, badgeID, domain.AuditActionJoin, domain.AuditCategoryGame, map[string]interface{}{
		"stake": stake,
	})
}

// логирует регистрацию числа (само число в аудит не пишем)
func (s *AuditService) LogGuess(ctx context.Context, gameID string, badgeID uint64) {
	s.Log(ctx, gameID, badgeID, domain.AuditActionGuess, domain.AuditCategoryGame, nil)
}

// логирует выплату банка
func (s *AuditService) LogPayout(ctx context.Context, gameID string, badgeID uint64, amount int64, wallet string) {
	details := map[string]interface{}{"amount": amount}
	if wallet != "" {
		details["wallet"] = wallet
	}
	s.Log(ctx, gameID, badgeID, domain.AuditActionPayout, domain.AuditCategoryPayment, details)
}
