package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/api"
	"github.com/RealNoorMuhammad/nfcpay/internal/api/ws"
	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/config"
	"github.com/RealNoorMuhammad/nfcpay/internal/gateway"
	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
	"github.com/RealNoorMuhammad/nfcpay/internal/scanner"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
	"github.com/RealNoorMuhammad/nfcpay/internal/walletext"
	"github.com/RealNoorMuhammad/nfcpay/internal/worker"
)

// Run bootstraps the wallet service and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	logger.Info("store opened", zap.String("backend", cfg.StorageBackend))

	wallet, err := ledger.Open(ctx, store)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	history, err := journal.Open(ctx, store)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	logger.Info("wallet loaded",
		zap.String("balance", wallet.Balance().StringFixed(2)),
		zap.Int("transactions", history.Len()),
	)

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	gw := gateway.NewSimulated(cfg.PayDelay, cfg.SendDelay, cfg.DepositDelay)
	orch := service.NewOrchestrator(wallet, history, gw, cfg.MaxAmount, logger).WithNotifier(hub)
	deposits := card.NewService(orch, gw, cfg.MaxAmount, cfg.DepositFailFirst, cfg.SessionTTL)
	scan := scanner.NewSimulated(cfg.ScanDelay, cfg.ScanMerchant, cfg.ScanAmount)

	var wallextProvider walletext.Provider = walletext.Disabled{}
	if cfg.WalletRPCURL != "" {
		wallextProvider = walletext.NewSolanaProvider(cfg.WalletRPCURL, cfg.WalletAddress)
	}

	sweeper := worker.NewSessionSweeper(deposits, cfg.SweepInterval, logger)
	stopSweeper := sweeper.Run(ctx)
	defer stopSweeper()

	if badgerStore, ok := store.(*storage.BadgerStore); ok {
		gc := worker.NewStorageGCWorker(badgerStore, cfg.GCInterval, logger)
		stopGC := gc.Run(ctx)
		defer stopGC()
	}

	router := api.NewRouter(cfg, logger, store, wallet, history, orch, deposits, scan, wallextProvider, hub)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // scan + processing delays run inside the request
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "badger":
		return storage.OpenBadger(filepath.Join(cfg.DataDir, "wallet"))
	case "redis":
		return storage.OpenRedis(cfg.RedisURL)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
