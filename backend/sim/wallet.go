package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"econsim/core"
	"econsim/internal/util"
)

// ErrInsufficientFunds is returned when a payment exceeds the balance.
var ErrInsufficientFunds = errors.New("sim: insufficient funds")

// Wallet is a volatile core.Wallet implementation holding one agent's
// balance and ledger in process-local state.
type Wallet struct {
	mu      sync.RWMutex
	owner   string
	balance float64
	ledger  []core.Transaction
}

// NewWallet constructs a wallet with an opening balance.
func NewWallet(owner string, openingBalance float64) *Wallet {
	return &Wallet{owner: owner, balance: util.Round2(openingBalance)}
}

// Balance implements core.Wallet.
func (w *Wallet) Balance(_ context.Context) (float64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance, nil
}

// SendPayment implements core.Wallet. It fails without mutating state when
// the balance cannot cover the amount.
func (w *Wallet) SendPayment(_ context.Context, to string, amount float64, memo string) (core.Transaction, error) {
	if amount < 0 {
		return core.Transaction{}, fmt.Errorf("sim: negative payment amount %.2f", amount)
	}
	amount = util.Round2(amount)

	w.mu.Lock()
	defer w.mu.Unlock()
	if amount > w.balance {
		return core.Transaction{}, fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, w.balance, amount)
	}
	w.balance = util.Round2(w.balance - amount)
	return w.recordLocked(w.owner, to, amount, memo), nil
}

// ReceivePayment implements core.Wallet.
func (w *Wallet) ReceivePayment(_ context.Context, from string, amount float64, memo string) (core.Transaction, error) {
	if amount < 0 {
		return core.Transaction{}, fmt.Errorf("sim: negative payment amount %.2f", amount)
	}
	amount = util.Round2(amount)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = util.Round2(w.balance + amount)
	return w.recordLocked(from, w.owner, amount, memo), nil
}

// History implements core.Wallet returning the most recent transactions,
// newest first.
func (w *Wallet) History(_ context.Context, limit int) ([]core.Transaction, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := len(w.ledger)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]core.Transaction, limit)
	for i := 0; i < limit; i++ {
		out[i] = w.ledger[n-1-i]
	}
	return out, nil
}

// recordLocked appends a ledger entry; caller must hold the write lock.
func (w *Wallet) recordLocked(from, to string, amount float64, memo string) core.Transaction {
	tx := core.Transaction{
		ID:        core.NewID(),
		From:      from,
		To:        to,
		Amount:    amount,
		Memo:      memo,
		Timestamp: time.Now().UTC(),
	}
	w.ledger = append(w.ledger, tx)
	return tx
}
