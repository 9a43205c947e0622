package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"oddeven_backend/internal/badge"
	"oddeven_backend/internal/domain"
	"oddeven_backend/internal/game"
	"oddeven_backend/internal/logger"
	"oddeven_backend/internal/metrics"
	"oddeven_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrGameNotFound = errors.New("игра не найдена")
	ErrStakeTooLow  = errors.New("ставка ниже минимальной")
	ErrStakeTooHigh = errors.New("ставка превышает максимальную")
	ErrInvalidStake = errors.New("неверная сумма ставки")
)

// содержит конфигурацию лимитов ставки при создании игры
type StakeLimits struct {
	MinStake int64
	MaxStake int64
}

// получатель обновлений состояния игры (websocket hub)
type Broadcaster interface {
	BroadcastState(gameID string, state map[string]interface{})
}

// получатель уведомлений о выплатах (админ бот)
type PayoutNotifier interface {
	NotifyPayout(gameID string, badgeID uint64, amount int64)
}

// Итог создания игры: ее id плюс требуемая ставка
type CreatedGame struct {
	ID    string `json:"id"`
	Stake int64  `json:"stake"`
}

// Итог входа: бейдж-токен (доказательство участия) и сдача
type JoinResult struct {
	Badge  string    `json:"badge"`
	Side   game.Side `json:"side"`
	Change int64     `json:"change"`
}

// управляет активными играми "чет-нечет"
type GameService struct {
	db          *pgxpool.Pool
	issuer      *badge.Issuer
	limits      StakeLimits
	activeGames map[string]*game.OddEvenGame
	mu          sync.RWMutex

	gameRepo   *repository.GameRepository
	ledgerRepo *repository.LedgerRepository
	audit      *AuditService

	broadcaster Broadcaster
	notifier    PayoutNotifier
}

// создает новый игровой сервис; db может быть nil - тогда сервис
// работает только в памяти, без истории
func NewGameService(db *pgxpool.Pool, issuer *badge.Issuer, limits StakeLimits) *GameService {
	s := &GameService{
		db:          db,
		issuer:      issuer,
		limits:      limits,
		activeGames: make(map[string]*game.OddEvenGame),
	}
	if db != nil {
		s.gameRepo = repository.NewGameRepository(db)
		s.ledgerRepo = repository.NewLedgerRepository(db)
		s.audit = NewAuditService(db)
	}

	// горутина очистки завершенных и заброшенных игр
	go s.cleanupGames()

	return s
}

func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *GameService) SetPayoutNotifier(n PayoutNotifier) {
	s.notifier = n
}

// проверяет, находится ли ставка в разрешенных пределах
func (s *GameService) ValidateStake(stake int64) error {
	if stake <= 0 {
		return ErrInvalidStake
	}
	if stake < s.limits.MinStake {
		return ErrStakeTooLow
	}
	if stake > s.limits.MaxStake {
		return ErrStakeTooHigh
	}
	return nil
}

// возвращает текущие лимиты ставки
func (s *GameService) GetLimits() StakeLimits {
	return s.limits
}

// создает новую игру с фиксированной ставкой
func (s *GameService) CreateGame(ctx context.Context, stake int64) (*CreatedGame, error) {
	if err := s.ValidateStake(stake); err != nil {
		return nil, err
	}

	gameID := uuid.New().String()[:8]
	g, err := game.NewOddEvenGame(gameID, stake, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.activeGames[gameID] = g
	metrics.ActiveGames.Set(float64(len(s.activeGames)))
	s.mu.Unlock()

	if s.gameRepo != nil {
		rec := &domain.GameRecord{ID: gameID, Stake: stake, Phase: string(game.PhaseAccepting)}
		if err := s.gameRepo.Create(ctx, rec); err != nil {
			logger.Error("не удалось сохранить игру", "error", err, "game_id", gameID)
		}
	}
	if s.audit != nil {
		s.audit.LogGameCreate(ctx, gameID, stake)
	}

	metrics.GamesCreated.Inc()
	logger.Info("игра создана", "game_id", gameID, "stake", stake)

	return &CreatedGame{ID: gameID, Stake: stake}, nil
}

// возвращает активную игру по id
func (s *GameService) getGame(gameID string) (*game.OddEvenGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.activeGames[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Вход в игру: движок забирает бейдж из пула и кладет ставку в эскроу,
// сервис подписывает бейдж-токен и возвращает его вместе со сдачей
func (s *GameService) Join(ctx context.Context, gameID string, stake int64) (*JoinResult, error) {
	g, err := s.getGame(gameID)
	if err != nil {
		return nil, err
	}

	b, change, err := g.Join(stake)
	if err != nil {
		metrics.RejectedOps.WithLabelValues("join").Inc()
		return nil, err
	}

	proof, err := s.issuer.Sign(gameID, b)
	if err != nil {
		return nil, err
	}

	s.persistState(ctx, g)
	if s.ledgerRepo != nil {
		entry := &domain.LedgerEntry{
			GameID:    gameID,
			BadgeID:   int64(b.ID),
			Direction: domain.LedgerDeposit,
			Amount:    g.Stake(),
			Meta:      map[string]interface{}{"change": change},
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			logger.Error("не удалось записать депозит в журнал", "error", err, "game_id", gameID)
		}
	}
	if s.audit != nil {
		s.audit.LogJoin(ctx, gameID, b.ID, g.Stake())
	}

	metrics.Joins.Inc()
	s.broadcast(gameID, g)
	logger.Info("участник вошел в игру", "game_id", gameID, "badge_id", b.ID, "side", b.Side)

	return &JoinResult{Badge: proof, Side: b.Side, Change: change}, nil
}

// Регистрация числа участника по бейдж-токену; когда названы оба числа,
// движок синхронно вычисляет победителя и переводит игру к выплате
func (s *GameService) SubmitGuess(ctx context.Context, gameID, proof string, guess uint64) error {
	g, err := s.getGame(gameID)
	if err != nil {
		return err
	}

	claims, err := s.issuer.Verify(proof, gameID)
	if err != nil {
		metrics.RejectedOps.WithLabelValues("identity").Inc()
		return err
	}

	if err := g.SubmitGuess(claims.BadgeID, guess); err != nil {
		metrics.RejectedOps.WithLabelValues("guess").Inc()
		return err
	}

	s.persistState(ctx, g)
	if s.audit != nil {
		s.audit.LogGuess(ctx, gameID, claims.BadgeID)
	}

	metrics.Guesses.Inc()
	s.broadcast(gameID, g)
	logger.Info("число зарегистрировано", "game_id", gameID, "badge_id", claims.BadgeID, "guess", guess)

	return nil
}

// Вывод банка победителем; wallet - необязательный адрес для записи
// в журнал выплат, уже нормализованный вызывающей стороной
func (s *GameService) Withdraw(ctx context.Context, gameID, proof, wallet string) (int64, string, error) {
	g, err := s.getGame(gameID)
	if err != nil {
		return 0, "", err
	}

	claims, err := s.issuer.Verify(proof, gameID)
	if err != nil {
		metrics.RejectedOps.WithLabelValues("identity").Inc()
		return 0, "", err
	}

	pot, message, err := g.Withdraw(claims.BadgeID)
	if err != nil {
		metrics.RejectedOps.WithLabelValues("withdraw").Inc()
		return 0, "", err
	}

	if s.ledgerRepo != nil {
		meta := map[string]interface{}{}
		if wallet != "" {
			meta["wallet"] = wallet
		}
		entry := &domain.LedgerEntry{
			GameID:    gameID,
			BadgeID:   int64(claims.BadgeID),
			Direction: domain.LedgerPayout,
			Amount:    pot,
			Meta:      meta,
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			logger.Error("не удалось записать выплату в журнал", "error", err, "game_id", gameID)
		}
	}
	if s.gameRepo != nil {
		if err := s.gameRepo.SetWinner(ctx, gameID, int64(claims.BadgeID)); err != nil {
			logger.Error("не удалось зафиксировать победителя", "error", err, "game_id", gameID)
		}
		if err := s.gameRepo.MarkEnded(ctx, gameID, time.Now()); err != nil {
			logger.Error("не удалось пометить игру завершенной", "error", err, "game_id", gameID)
		}
	}
	if s.audit != nil {
		s.audit.LogPayout(ctx, gameID, claims.BadgeID, pot, wallet)
	}

	metrics.Payouts.Inc()
	s.broadcast(gameID, g)
	if s.notifier != nil {
		s.notifier.NotifyPayout(gameID, claims.BadgeID, pot)
	}
	logger.Info("банк выплачен", "game_id", gameID, "badge_id", claims.BadgeID, "amount", pot)

	return pot, message, nil
}

// возвращает суммарный банк игры
func (s *GameService) TotalWagered(gameID string) (int64, error) {
	g, err := s.getGame(gameID)
	if err != nil {
		return 0, err
	}
	total := g.TotalWagered()
	logger.Info("запрошен суммарный банк", "game_id", gameID, "total", total)
	return total, nil
}

// возвращает размер ставки игры
func (s *GameService) StakeAmount(gameID string) (int64, error) {
	g, err := s.getGame(gameID)
	if err != nil {
		return 0, err
	}
	stake := g.Stake()
	logger.Info("запрошен размер ставки", "game_id", gameID, "stake", stake)
	return stake, nil
}

// возвращает снимок состояния игры
func (s *GameService) State(gameID string) (map[string]interface{}, error) {
	g, err := s.getGame(gameID)
	if err != nil {
		return nil, err
	}
	return g.State(), nil
}

// возвращает количество активных игр
func (s *GameService) ActiveGamesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activeGames)
}

// суммарный эскроу по всем активным играм (для админ статистики)
func (s *GameService) TotalEscrowed() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, g := range s.activeGames {
		total += g.TotalWagered()
	}
	return total
}

// сохраняет текущую фазу и победителя после успешной мутации
func (s *GameService) persistState(ctx context.Context, g *game.OddEvenGame) {
	if s.gameRepo == nil {
		return
	}
	if err := s.gameRepo.UpdatePhase(ctx, g.ID, string(g.Phase())); err != nil {
		logger.Error("не удалось обновить фазу", "error", err, "game_id", g.ID)
	}
	if w := g.Winner(); w != 0 {
		if err := s.gameRepo.SetWinner(ctx, g.ID, int64(w)); err != nil {
			logger.Error("не удалось сохранить победителя", "error", err, "game_id", g.ID)
		}
	}
}

func (s *GameService) broadcast(gameID string, g *game.OddEvenGame) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastState(gameID, g.State())
	}
}

// удаляет завершенные игры и игры, заброшенные дольше суток;
// пути восстановления для зависших игр нет, только вычистка из памяти
func (s *GameService) cleanupGames() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, g := range s.activeGames {
			if g.IsFinished() {
				delete(s.activeGames, id)
				continue
			}
			if now.Sub(g.CreatedAt()) > 24*time.Hour {
				logger.Warn("заброшенная игра удалена из памяти", "game_id", id, "phase", g.Phase())
				delete(s.activeGames, id)
			}
		}
		metrics.ActiveGames.Set(float64(len(s.activeGames)))
		s.mu.Unlock()
	}
}
