package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

func openLedger(t *testing.T) (*Ledger, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	l, err := Open(context.Background(), store)
	require.NoError(t, err)
	return l, store
}

func TestOpen_InitializesZeroBalance(t *testing.T) {
	l, store := openLedger(t)

	assert.Equal(t, "0.00", l.Balance().StringFixed(2))

	raw, ok, err := store.Get(context.Background(), "nfcpay_balance")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.00", raw)
}

func TestOpen_LoadsPersistedBalance(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "nfcpay_balance", "123.45"))

	l, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "123.45", l.Balance().StringFixed(2))
}

func TestOpen_CorruptValueResetsToZero(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "nfcpay_balance", "not-a-number"))

	l, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "0.00", l.Balance().StringFixed(2))
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)

	bal, err := l.Credit(ctx, decimal.RequireFromString("100.005"))
	require.NoError(t, err)
	assert.Equal(t, "100.01", bal.StringFixed(2))

	_, err = l.Credit(ctx, decimal.Zero)
	assert.Error(t, err)
	assert.Equal(t, "100.01", l.Balance().StringFixed(2))
}

func TestDebit(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)

	_, err := l.Credit(ctx, decimal.NewFromInt(50))
	require.NoError(t, err)

	ok, err := l.Debit(ctx, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "20.00", l.Balance().StringFixed(2))

	// Draining to exactly zero is allowed.
	ok, err = l.Debit(ctx, decimal.RequireFromString("20.00"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.00", l.Balance().StringFixed(2))
}

func TestDebit_InsufficientFundsLeavesBalanceUntouched(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)

	_, err := l.Credit(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)

	ok, err := l.Debit(ctx, decimal.RequireFromString("10.01"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "10.00", l.Balance().StringFixed(2))
}

func TestDebit_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	l, _ := openLedger(t)

	_, err := l.Credit(ctx, decimal.NewFromInt(50))
	require.NoError(t, err)

	amount := decimal.NewFromInt(30)
	results := make([]bool, 2)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, derr := l.Debit(ctx, amount)
			require.NoError(t, derr)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, "20.00", l.Balance().StringFixed(2))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	l, store := openLedger(t)

	_, err := l.Credit(ctx, decimal.NewFromInt(75))
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx))
	assert.Equal(t, "0.00", l.Balance().StringFixed(2))

	raw, ok, err := store.Get(ctx, "nfcpay_balance")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.00", raw)
}

func TestBalanceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	l, err := Open(ctx, store)
	require.NoError(t, err)
	_, err = l.Credit(ctx, decimal.RequireFromString("42.42"))
	require.NoError(t, err)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "42.42", reopened.Balance().StringFixed(2))
}
