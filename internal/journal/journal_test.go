package journal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

func openJournal(t *testing.T) (*Journal, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	j, err := Open(context.Background(), store)
	require.NoError(t, err)
	return j, store
}

func TestAppend_NewestFirst(t *testing.T) {
	ctx := context.Background()
	j, _ := openJournal(t)

	first, err := j.Append(ctx, "Coffee Shop", decimal.RequireFromString("4.50"), domain.TypePayment)
	require.NoError(t, err)
	second, err := j.Append(ctx, "Visa Card", decimal.RequireFromString("100.00"), domain.TypeAdd)
	require.NoError(t, err)

	list := j.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, domain.TypeAdd, list[0].Type)
	assert.Equal(t, domain.TypePayment, list[1].Type)
}

func TestAppend_AssignsUniqueIDsAndTimestamps(t *testing.T) {
	ctx := context.Background()
	j, _ := openJournal(t)

	a, err := j.Append(ctx, "A", decimal.NewFromInt(1), domain.TypePayment)
	require.NoError(t, err)
	b, err := j.Append(ctx, "B", decimal.NewFromInt(2), domain.TypePayment)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestAppend_RoundsAmount(t *testing.T) {
	ctx := context.Background()
	j, _ := openJournal(t)

	tx, err := j.Append(ctx, "Shop", decimal.RequireFromString("9.999"), domain.TypePayment)
	require.NoError(t, err)
	assert.Equal(t, "10.00", tx.Amount.StringFixed(2))
}

func TestList_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	j, _ := openJournal(t)

	_, err := j.Append(ctx, "Shop", decimal.NewFromInt(5), domain.TypePayment)
	require.NoError(t, err)

	list := j.List()
	list[0].Merchant = "mutated"

	assert.Equal(t, "Shop", j.List()[0].Merchant)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	j, store := openJournal(t)

	_, err := j.Append(ctx, "Shop", decimal.NewFromInt(5), domain.TypePayment)
	require.NoError(t, err)
	require.Equal(t, 1, j.Len())

	require.NoError(t, j.Clear(ctx))
	assert.Equal(t, 0, j.Len())

	_, ok, err := store.Get(ctx, "nfcpay_transactions")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_ReloadsPersistedEntries(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	j, err := Open(ctx, store)
	require.NoError(t, err)
	tx, err := j.Append(ctx, "Shop", decimal.RequireFromString("12.34"), domain.TypePayment)
	require.NoError(t, err)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	list := reopened.List()
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
	assert.Equal(t, "12.34", list[0].Amount.StringFixed(2))
}

func TestOpen_CorruptPayloadYieldsEmptyJournal(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "nfcpay_transactions", "{broken"))

	j, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, j.Len())
}
