package game

import (
	"errors"
	"testing"
)

// собирает игру до фазы сбора чисел: два входа с точной ставкой
func startedGame(t *testing.T, stake int64) (*OddEvenGame, Badge, Badge) {
	t.Helper()

	g, err := NewOddEvenGame("g1", stake, nil)
	if err != nil {
		t.Fatalf("не удалось создать игру: %v", err)
	}

	b1, change, err := g.Join(stake)
	if err != nil {
		t.Fatalf("первый вход не удался: %v", err)
	}
	if change != 0 {
		t.Fatalf("ожидалась нулевая сдача, получили %d", change)
	}

	b2, _, err := g.Join(stake)
	if err != nil {
		t.Fatalf("второй вход не удался: %v", err)
	}

	return g, b1, b2
}

func TestFullGameScenario(t *testing.T) {
	g, err := NewOddEvenGame("g1", 100, nil)
	if err != nil {
		t.Fatalf("не удалось создать игру: %v", err)
	}
	if g.Phase() != PhaseAccepting {
		t.Fatalf("новая игра должна принимать игроков, фаза: %s", g.Phase())
	}

	// первый игрок вносит больше ставки и получает сдачу
	b1, change, err := g.Join(150)
	if err != nil {
		t.Fatalf("первый вход не удался: %v", err)
	}
	if change != 50 {
		t.Fatalf("ожидалась сдача 50, получили %d", change)
	}
	if b1.ID != 1 || b1.Side != SideEven {
		t.Fatalf("первому игроку положен бейдж 1 (even), получили %+v", b1)
	}
	if g.TotalWagered() != 100 {
		t.Fatalf("в эскроу должна быть ровно ставка, баланс: %d", g.TotalWagered())
	}

	b2, _, err := g.Join(100)
	if err != nil {
		t.Fatalf("второй вход не удался: %v", err)
	}
	if b2.ID != 2 || b2.Side != SideOdd {
		t.Fatalf("второму игроку положен бейдж 2 (odd), получили %+v", b2)
	}
	if g.Phase() != PhaseGuessCollection {
		t.Fatalf("после двух входов ожидалась фаза сбора чисел, фаза: %s", g.Phase())
	}
	if g.TotalWagered() != 200 {
		t.Fatalf("банк после двух входов должен быть 200, баланс: %d", g.TotalWagered())
	}

	if err := g.SubmitGuess(b1.ID, 3); err != nil {
		t.Fatalf("первое число не принято: %v", err)
	}
	if err := g.SubmitGuess(b2.ID, 4); err != nil {
		t.Fatalf("второе число не принято: %v", err)
	}

	// числа 3 и 4: обход начинается с четного (4, бейдж 2), сумма 4 четная,
	// дальше 4+3=7 нечетная - победитель бейдж 2
	if g.Phase() != PhasePayout {
		t.Fatalf("после двух чисел ожидалась фаза выплаты, фаза: %s", g.Phase())
	}
	if g.Winner() != b2.ID {
		t.Fatalf("ожидался победитель %d, получили %d", b2.ID, g.Winner())
	}

	// проигравший вывести не может
	if _, _, err := g.Withdraw(b1.ID); !errors.Is(err, ErrNotWinner) {
		t.Fatalf("ожидалась ошибка ErrNotWinner, получили %v", err)
	}

	pot, msg, err := g.Withdraw(b2.ID)
	if err != nil {
		t.Fatalf("вывод победителем не удался: %v", err)
	}
	if pot != 200 {
		t.Fatalf("ожидался банк 200, получили %d", pot)
	}
	if msg != "you withdrew 200, congratulations!" {
		t.Fatalf("неожиданное сообщение вывода: %q", msg)
	}
	if !g.IsFinished() {
		t.Fatalf("после вывода игра должна быть завершена, фаза: %s", g.Phase())
	}
	if g.TotalWagered() != 0 {
		t.Fatalf("после вывода эскроу должен быть пуст, баланс: %d", g.TotalWagered())
	}
}

func TestJoinRejectsThirdPlayer(t *testing.T) {
	g, _, _ := startedGame(t, 100)

	// после двух входов фаза уже не accepting_players
	if _, _, err := g.Join(100); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ожидалась ошибка ErrWrongPhase, получили %v", err)
	}
}

func TestJoinInsufficientStakeMutatesNothing(t *testing.T) {
	g, err := NewOddEvenGame("g1", 100, nil)
	if err != nil {
		t.Fatalf("не удалось создать игру: %v", err)
	}

	if _, _, err := g.Join(99); !errors.Is(err, ErrInsufficientStake) {
		t.Fatalf("ожидалась ошибка ErrInsufficientStake, получили %v", err)
	}
	if g.TotalWagered() != 0 {
		t.Fatalf("неудачный вход не должен трогать эскроу, баланс: %d", g.TotalWagered())
	}
	if g.Phase() != PhaseAccepting {
		t.Fatalf("неудачный вход не должен менять фазу, фаза: %s", g.Phase())
	}

	// бейдж не выдан, следующий игрок получает бейдж 1
	b, _, err := g.Join(100)
	if err != nil {
		t.Fatalf("вход с точной ставкой не удался: %v", err)
	}
	if b.ID != 1 {
		t.Fatalf("пул бейджей сдвинулся после неудачного входа, выдан бейдж %d", b.ID)
	}
}

func TestGuessBeforeCollectionPhase(t *testing.T) {
	g, err := NewOddEvenGame("g1", 100, nil)
	if err != nil {
		t.Fatalf("не удалось создать игру: %v", err)
	}
	b, _, err := g.Join(100)
	if err != nil {
		t.Fatalf("вход не удался: %v", err)
	}

	// второй игрок еще не вошел, фаза все еще accepting_players
	if err := g.SubmitGuess(b.ID, 7); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ожидалась ошибка ErrWrongPhase, получили %v", err)
	}
}

func TestGuessUnknownBadge(t *testing.T) {
	g, _, _ := startedGame(t, 100)

	if err := g.SubmitGuess(99, 7); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("ожидалась ошибка ErrUnknownParticipant, получили %v", err)
	}
}

func TestGuessOverwriteBeforeBothPicked(t *testing.T) {
	g, b1, b2 := startedGame(t, 100)

	if err := g.SubmitGuess(b1.ID, 5); err != nil {
		t.Fatalf("первое число не принято: %v", err)
	}
	// пока второй не назвал число, свое можно заменить
	if err := g.SubmitGuess(b1.ID, 8); err != nil {
		t.Fatalf("замена числа не удалась: %v", err)
	}
	if err := g.SubmitGuess(b2.ID, 3); err != nil {
		t.Fatalf("второе число не принято: %v", err)
	}

	// учтено последнее число: 8 четное идет первым, сумма 8 - победитель бейдж 1
	if g.Winner() != b1.ID {
		t.Fatalf("ожидался победитель %d, получили %d", b1.ID, g.Winner())
	}

	// после закрытия сбора число менять нельзя
	if err := g.SubmitGuess(b1.ID, 1); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ожидалась ошибка ErrWrongPhase, получили %v", err)
	}
}

func TestZeroIsValidGuess(t *testing.T) {
	g, b1, b2 := startedGame(t, 100)

	if err := g.SubmitGuess(b1.ID, 0); err != nil {
		t.Fatalf("ноль должен приниматься как число: %v", err)
	}
	if g.Phase() != PhaseGuessCollection {
		t.Fatalf("одно число не закрывает сбор, фаза: %s", g.Phase())
	}
	if err := g.SubmitGuess(b2.ID, 0); err != nil {
		t.Fatalf("второе число не принято: %v", err)
	}
	if g.Winner() == 0 {
		t.Fatalf("победитель должен быть вычислен для пары нулей")
	}
}

// победитель существует для любой пары чисел: сверяем фолд движка
// с независимой эталонной реализацией на переборе небольших пар
func TestWinnerAlwaysSelected(t *testing.T) {
	ref := func(guesses map[uint64]uint64) uint64 {
		// тот же порядок обхода: сначала четные, при равенстве меньший id
		order := []uint64{1, 2}
		if guesses[2]%2 == 0 && guesses[1]%2 != 0 {
			order = []uint64{2, 1}
		}
		var sum uint64
		var winner uint64
		for _, id := range order {
			sum += guesses[id]
			if sum%2 == 0 {
				winner = id
			}
		}
		return winner
	}

	for a := uint64(0); a <= 12; a++ {
		for b := uint64(0); b <= 12; b++ {
			g, b1, b2 := startedGame(t, 10)
			if err := g.SubmitGuess(b1.ID, a); err != nil {
				t.Fatalf("число %d не принято: %v", a, err)
			}
			if err := g.SubmitGuess(b2.ID, b); err != nil {
				t.Fatalf("число %d не принято: %v", b, err)
			}

			want := ref(map[uint64]uint64{1: a, 2: b})
			if want == 0 {
				t.Fatalf("эталон не нашел победителя для пары (%d, %d)", a, b)
			}
			if got := g.Winner(); got != want {
				t.Fatalf("пара (%d, %d): ожидался победитель %d, получили %d", a, b, want, got)
			}
			if g.Phase() != PhasePayout {
				t.Fatalf("пара (%d, %d): ожидалась фаза выплаты, фаза: %s", a, b, g.Phase())
			}
		}
	}
}

func TestWithdrawBeforePayoutPhase(t *testing.T) {
	g, b1, _ := startedGame(t, 100)

	if _, _, err := g.Withdraw(b1.ID); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ожидалась ошибка ErrWrongPhase, получили %v", err)
	}
}

func TestWithdrawTwice(t *testing.T) {
	g, b1, b2 := startedGame(t, 100)

	if err := g.SubmitGuess(b1.ID, 2); err != nil {
		t.Fatalf("число не принято: %v", err)
	}
	if err := g.SubmitGuess(b2.ID, 2); err != nil {
		t.Fatalf("число не принято: %v", err)
	}

	winner := g.Winner()
	if _, _, err := g.Withdraw(winner); err != nil {
		t.Fatalf("вывод не удался: %v", err)
	}

	// игра завершена, повторный вывод запрещен фазой
	if _, _, err := g.Withdraw(winner); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ожидалась ошибка ErrWrongPhase, получили %v", err)
	}
}

func TestQueriesDoNotAdvancePhase(t *testing.T) {
	g, err := NewOddEvenGame("g1", 100, nil)
	if err != nil {
		t.Fatalf("не удалось создать игру: %v", err)
	}

	for i := 0; i < 5; i++ {
		_ = g.TotalWagered()
		_ = g.Stake()
		_ = g.Winner()
		_ = g.State()
	}
	if g.Phase() != PhaseAccepting {
		t.Fatalf("запросы не должны двигать фазу, фаза: %s", g.Phase())
	}
}

func TestNewGameRejectsNonPositiveStake(t *testing.T) {
	if _, err := NewOddEvenGame("g1", 0, nil); err == nil {
		t.Fatalf("ожидалась ошибка для нулевой ставки")
	}
	if _, err := NewOddEvenGame("g1", -5, nil); err == nil {
		t.Fatalf("ожидалась ошибка для отрицательной ставки")
	}
}

func TestStateSnapshot(t *testing.T) {
	g, b1, _ := startedGame(t, 100)

	if err := g.SubmitGuess(b1.ID, 7); err != nil {
		t.Fatalf("число не принято: %v", err)
	}

	state := g.State()
	if state["phase"] != PhaseGuessCollection {
		t.Fatalf("ожидалась фаза сбора в снимке, получили %v", state["phase"])
	}

	players, ok := state["players"].(map[string]interface{})
	if !ok || len(players) != 2 {
		t.Fatalf("ожидались два игрока в снимке, получили %v", state["players"])
	}

	// снимок показывает факт хода, но не само число
	p1 := players["1"].(map[string]interface{})
	if p1["guessed"] != true {
		t.Fatalf("первый игрок уже назвал число, снимок: %v", p1)
	}
	if _, leaked := p1["guess"]; leaked {
		t.Fatalf("снимок не должен раскрывать само число")
	}
}
