// Package journal keeps the append-only, newest-first record of completed
// money movements. Entries are immutable once appended; the sequence only
// grows at the front or is cleared in full.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

// journalKey matches the key the original demo used in browser storage.
const journalKey = "nfcpay_transactions"

type Journal struct {
	mu      sync.Mutex
	store   storage.Store
	entries []domain.Transaction
}

// Open loads the persisted transaction sequence. A missing key or a corrupt
// payload yields an empty journal.
func Open(ctx context.Context, store storage.Store) (*Journal, error) {
	j := &Journal{store: store}

	raw, ok, err := store.Get(ctx, journalKey)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if ok {
		if uerr := json.Unmarshal([]byte(raw), &j.entries); uerr != nil {
			j.entries = nil
		}
	}
	return j, nil
}

// Append creates a transaction with a fresh id and timestamp, prepends it to
// the sequence, persists the full sequence, and returns the created record.
func (j *Journal) Append(ctx context.Context, merchant string, amount decimal.Decimal, typ domain.TransactionType) (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:        uuid.NewString(),
		Merchant:  merchant,
		Amount:    domain.Round(amount),
		Type:      typ,
		Timestamp: time.Now().UTC(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	prev := j.entries
	j.entries = append([]domain.Transaction{tx}, j.entries...)
	if err := j.persistLocked(ctx); err != nil {
		j.entries = prev
		return domain.Transaction{}, fmt.Errorf("persist journal: %w", err)
	}
	return tx, nil
}

// List returns a copy of the sequence, newest first.
func (j *Journal) List() []domain.Transaction {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]domain.Transaction, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded transactions.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Clear empties the sequence and removes it from durable storage.
func (j *Journal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.Delete(ctx, journalKey); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	j.entries = nil
	return nil
}

func (j *Journal) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(j.entries)
	if err != nil {
		return err
	}
	return j.store.Set(ctx, journalKey, string(data))
}
