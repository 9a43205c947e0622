package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"oddeven_backend/internal/escrow"
)

// Фазы игры, строго в прямом порядке, без циклов
type Phase string

const (
	PhaseAccepting       Phase = "accepting_players"
	PhaseGuessCollection Phase = "guess_collection"
	PhaseWinnerSelection Phase = "winner_selection"
	PhasePayout          Phase = "payout"
	PhaseEnded           Phase = "ended"
)

// Сторона участника, привязывается к бейджу при выпуске
type Side string

const (
	SideEven Side = "even"
	SideOdd  Side = "odd"
)

// Бейдж - пронумерованный идентификатор участника из пула в две штуки
type Badge struct {
	ID   uint64 `json:"id"`
	Side Side   `json:"side"`
}

// Участник игры; Guess == nil означает "число еще не названо"
type Participant struct {
	Guess *uint64 `json:"guess"`
	Side  Side    `json:"side"`
}

const maxPlayers = 2

var (
	ErrWrongPhase         = errors.New("операция недоступна в текущей фазе игры")
	ErrGameFull           = errors.New("игра заполнена")
	ErrInsufficientStake  = errors.New("внесенная сумма меньше требуемой ставки")
	ErrUnknownParticipant = errors.New("бейдж не зарегистрирован в этой игре")
	ErrNotWinner          = errors.New("выводить банк может только победитель")
)

// Игра "чет-нечет" на двоих: оба вносят одинаковую ставку в эскроу,
// называют по числу, и парный фолд по четности выбирает победителя
type OddEvenGame struct {
	ID    string
	stake int64

	phase        Phase
	participants map[uint64]*Participant
	pool         []Badge // невыданные бейджи, раздаются по порядку
	winner       uint64  // 0 пока победитель не вычислен
	paid         bool

	vault     escrow.Vault
	createdAt time.Time
	mu        sync.RWMutex
}

// Создание новой игры с фиксированной ставкой; пул бейджей выпускается сразу:
// бейдж 1 - "четный" игрок, бейдж 2 - "нечетный"
func NewOddEvenGame(id string, stake int64, vault escrow.Vault) (*OddEvenGame, error) {
	if stake <= 0 {
		return nil, errors.New("ставка должна быть положительной")
	}
	if vault == nil {
		vault = escrow.NewMemoryVault()
	}

	return &OddEvenGame{
		ID:           id,
		stake:        stake,
		phase:        PhaseAccepting,
		participants: make(map[uint64]*Participant, maxPlayers),
		pool: []Badge{
			{ID: 1, Side: SideEven},
			{ID: 2, Side: SideOdd},
		},
		vault:     vault,
		createdAt: time.Now(),
	}, nil
}

// Вход в игру: забирает первый свободный бейдж из пула, кладет ровно
// ставку в эскроу и возвращает бейдж вместе со сдачей
func (g *OddEvenGame) Join(stake int64) (Badge, int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAccepting {
		return Badge{}, 0, ErrWrongPhase
	}
	if len(g.participants) >= maxPlayers {
		return Badge{}, 0, ErrGameFull
	}
	if stake < g.stake {
		return Badge{}, 0, ErrInsufficientStake
	}

	badge := g.pool[0]
	g.pool = g.pool[1:]

	g.vault.Deposit(g.stake)
	g.participants[badge.ID] = &Participant{Side: badge.Side}

	g.updateState()

	return badge, stake - g.stake, nil
}

// Регистрация числа участника; повторный вызов перезаписывает число,
// пока фаза сбора не закрыта
func (g *OddEvenGame) SubmitGuess(badgeID uint64, guess uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseGuessCollection {
		return ErrWrongPhase
	}
	p, ok := g.participants[badgeID]
	if !ok {
		return ErrUnknownParticipant
	}

	v := guess
	p.Guess = &v

	g.updateState()
	return nil
}

// Вывод банка победителем: забирает весь баланс эскроу одним переводом
// и завершает игру
func (g *OddEvenGame) Withdraw(badgeID uint64) (int64, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePayout {
		return 0, "", ErrWrongPhase
	}
	if badgeID != g.winner {
		return 0, "", ErrNotWinner
	}

	pot := g.vault.Withdraw(g.vault.Balance())
	g.paid = true

	g.updateState()

	return pot, fmt.Sprintf("you withdrew %d, congratulations!", pot), nil
}

// Суммарный банк в эскроу, доступно в любой фазе
func (g *OddEvenGame) TotalWagered() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vault.Balance()
}

// Размер ставки, доступно в любой фазе
func (g *OddEvenGame) Stake() int64 {
	return g.stake
}

func (g *OddEvenGame) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Бейдж победителя, 0 пока не вычислен
func (g *OddEvenGame) Winner() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.winner
}

func (g *OddEvenGame) CreatedAt() time.Time {
	return g.createdAt
}

// Завершена ли игра (терминальная фаза)
func (g *OddEvenGame) IsFinished() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase == PhaseEnded
}

// проверяет, что оба участника уже назвали число
func (g *OddEvenGame) bothPicked() bool {
	if len(g.participants) != maxPlayers {
		return false
	}
	for _, p := range g.participants {
		if p.Guess == nil {
			return false
		}
	}
	return true
}

// Фолд выбора победителя: идем по двум записям, накапливая сумму чисел;
// после каждого слагаемого, если текущая сумма четная, кандидат - эта запись.
// Порядок обхода фиксированный: сначала четные числа, при равенстве по
// возрастанию id бейджа - при таком порядке фолд всегда дает победителя
func (g *OddEvenGame) selectWinner() {
	ids := make([]uint64, 0, len(g.participants))
	for id := range g.participants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		gi, gj := *g.participants[ids[i]].Guess, *g.participants[ids[j]].Guess
		if gi%2 != gj%2 {
			return gi%2 == 0
		}
		return ids[i] < ids[j]
	})

	var sum uint64
	for _, id := range ids {
		sum += *g.participants[id].Guess
		if sum%2 == 0 {
			g.winner = id
		}
	}

	g.updateState()
}

// Единственная точка смены фазы: вызывается пост-шагом после каждой
// успешной мутации, двигает фазу максимум на один шаг вперед и ничего
// не делает, если условие выхода из текущей фазы не выполнено
func (g *OddEvenGame) updateState() {
	switch g.phase {
	case PhaseAccepting:
		if len(g.participants) == maxPlayers {
			g.phase = PhaseGuessCollection
		}
	case PhaseGuessCollection:
		if g.bothPicked() {
			g.phase = PhaseWinnerSelection
			g.selectWinner()
		}
	case PhaseWinnerSelection:
		if g.winner != 0 {
			g.phase = PhasePayout
		}
	case PhasePayout:
		if g.paid {
			g.phase = PhaseEnded
		}
	}
}

// Снимок состояния игры для клиента
func (g *OddEvenGame) State() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	players := make(map[string]interface{}, len(g.participants))
	for id, p := range g.participants {
		players[fmt.Sprintf("%d", id)] = map[string]interface{}{
			"side":    p.Side,
			"guessed": p.Guess != nil,
		}
	}

	return map[string]interface{}{
		"id":            g.ID,
		"phase":         g.phase,
		"stake":         g.stake,
		"players":       players,
		"winner":        g.winner,
		"total_wagered": g.vault.Balance(),
	}
}
