package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/gateway"
	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

func newDeposits(t *testing.T, ttl time.Duration) *card.Service {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	l, err := ledger.Open(ctx, store)
	require.NoError(t, err)
	j, err := journal.Open(ctx, store)
	require.NoError(t, err)

	gw := gateway.NewSimulated(0, 0, 0)
	max := decimal.NewFromInt(10000)
	orch := service.NewOrchestrator(l, j, gw, max, zap.NewNop())
	return card.NewService(orch, gw, max, false, ttl)
}

func TestSessionSweeper_RemovesExpiredSessions(t *testing.T) {
	deposits := newDeposits(t, time.Millisecond)

	_, err := deposits.CreateSession(card.Details{
		Number:         "4111111111111111",
		CardholderName: "Jordan Smith",
		Expiry:         "12/30",
		CVV:            "123",
	}, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, 1, deposits.PendingCount())

	w := NewSessionSweeper(deposits, 5*time.Millisecond, nil)
	stop := w.Run(context.Background())
	defer stop()

	assert.Eventually(t, func() bool {
		return deposits.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSessionSweeper_StopTerminatesLoop(t *testing.T) {
	deposits := newDeposits(t, time.Minute)

	w := NewSessionSweeper(deposits, time.Millisecond, nil)
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStorageGCWorker_ContextCancelTerminatesLoop(t *testing.T) {
	store, err := storage.OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	w := NewStorageGCWorker(store, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gc worker did not stop")
	}
}
