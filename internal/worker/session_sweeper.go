package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
)

// SessionSweeper expires abandoned card deposit sessions so a form opened
// and never retried does not linger forever.
type SessionSweeper struct {
	deposits *card.Service
	interval time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
}

func NewSessionSweeper(deposits *card.Service, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweeper{
		deposits: deposits,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or the context is canceled.
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if removed := w.deposits.SweepExpired(); removed > 0 {
				w.logger.Info("expired deposit sessions swept", zap.Int("removed", removed))
			}
			observability.IncrementWorkerRun("session_sweeper", "ok")
		}
	}
}

// Stop signals the worker to stop.
func (w *SessionSweeper) Stop() {
	close(w.stopCh)
}

// Run starts the worker in a goroutine and returns its stop function.
func (w *SessionSweeper) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}
