package escrow

import "sync"

// Эскроу-хранилище ставок одной игры: пополнение, баланс, вывод.
// Средства внутри принадлежат исключительно игре-владельцу
type Vault interface {
	Deposit(amount int64)
	Balance() int64
	// списывает не больше запрошенного и возвращает фактически снятую сумму
	Withdraw(amount int64) int64
}

type MemoryVault struct {
	balance int64
	mu      sync.Mutex
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (v *MemoryVault) Deposit(amount int64) {
	if amount <= 0 {
		return
	}
	v.mu.Lock()
	v.balance += amount
	v.mu.Unlock()
}

func (v *MemoryVault) Balance() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance
}

func (v *MemoryVault) Withdraw(amount int64) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount <= 0 {
		return 0
	}
	if amount > v.balance {
		amount = v.balance
	}
	v.balance -= amount
	return amount
}
