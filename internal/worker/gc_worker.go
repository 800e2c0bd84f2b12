// Package worker holds the background maintenance loops: badger value-log
// GC and expiry of abandoned deposit sessions.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
)

// StorageGCWorker periodically runs badger value-log garbage collection so
// a long-lived wallet does not accumulate stale value-log files.
type StorageGCWorker struct {
	store    *storage.BadgerStore
	interval time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
}

func NewStorageGCWorker(store *storage.BadgerStore, interval time.Duration, logger *zap.Logger) *StorageGCWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageGCWorker{
		store:    store,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the GC loop until Stop is called or the context is canceled.
func (w *StorageGCWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.store.RunGC(); err != nil {
				observability.IncrementWorkerRun("storage_gc", "error")
				w.logger.Warn("badger gc failed", zap.Error(err))
				continue
			}
			observability.IncrementWorkerRun("storage_gc", "ok")
		}
	}
}

// Stop signals the worker to stop.
func (w *StorageGCWorker) Stop() {
	close(w.stopCh)
}

// Run starts the worker in a goroutine and returns its stop function.
func (w *StorageGCWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}
