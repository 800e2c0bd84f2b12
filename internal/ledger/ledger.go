// Package ledger owns the wallet balance and its mutation rules. The debit
// guard here is the only place in the system allowed to reject a mutation for
// insufficient funds; no other component touches the balance.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

// balanceKey matches the key the original demo used in browser storage.
const balanceKey = "nfcpay_balance"

// Ledger holds the authoritative balance. All mutations run under one mutex,
// so a concurrent check-and-debit is atomic. The balance is rounded to 2
// decimal places and persisted before any mutation is reported as complete.
type Ledger struct {
	mu      sync.Mutex
	store   storage.Store
	balance decimal.Decimal
}

// Open loads the persisted balance, initializing it to 0.00 (and writing the
// initial value back) on first use. Unparseable stored values are treated as
// first use rather than crashing the wallet.
func Open(ctx context.Context, store storage.Store) (*Ledger, error) {
	l := &Ledger{store: store}

	raw, ok, err := store.Get(ctx, balanceKey)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	if ok {
		if parsed, perr := decimal.NewFromString(raw); perr == nil {
			l.balance = domain.Round(parsed)
			return l, nil
		}
	}

	l.balance = decimal.Zero
	if err := l.persistLocked(ctx); err != nil {
		return nil, fmt.Errorf("initialize balance: %w", err)
	}
	return l, nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Credit adds amount to the balance and persists the result. It always
// succeeds for a positive amount.
func (l *Ledger) Credit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.balance
	l.balance = domain.Round(l.balance.Add(amount))
	if err := l.persistLocked(ctx); err != nil {
		l.balance = prev
		return decimal.Zero, fmt.Errorf("persist credit: %w", err)
	}
	return l.balance, nil
}

// Debit subtracts amount from the balance if the result stays non-negative.
// It returns false, leaving the balance untouched, when funds are
// insufficient. The check and the mutation happen under the same lock hold,
// so two concurrent debits cannot both pass the check.
func (l *Ledger) Debit(ctx context.Context, amount decimal.Decimal) (bool, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return false, domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := domain.Round(l.balance.Sub(amount))
	if next.IsNegative() {
		return false, nil
	}

	prev := l.balance
	l.balance = next
	if err := l.persistLocked(ctx); err != nil {
		l.balance = prev
		return false, fmt.Errorf("persist debit: %w", err)
	}
	return true, nil
}

// Reset sets the balance back to 0.00 and persists it.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.balance
	l.balance = decimal.Zero
	if err := l.persistLocked(ctx); err != nil {
		l.balance = prev
		return fmt.Errorf("persist reset: %w", err)
	}
	return nil
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	return l.store.Set(ctx, balanceKey, l.balance.StringFixed(2))
}
