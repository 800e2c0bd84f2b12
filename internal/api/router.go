package api

import (
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/RealNoorMuhammad/nfcpay/internal/api/handler"
	"github.com/RealNoorMuhammad/nfcpay/internal/api/middleware"
	"github.com/RealNoorMuhammad/nfcpay/internal/api/spec"
	"github.com/RealNoorMuhammad/nfcpay/internal/api/ws"
	"github.com/RealNoorMuhammad/nfcpay/internal/card"
	"github.com/RealNoorMuhammad/nfcpay/internal/config"
	"github.com/RealNoorMuhammad/nfcpay/internal/journal"
	"github.com/RealNoorMuhammad/nfcpay/internal/ledger"
	"github.com/RealNoorMuhammad/nfcpay/internal/scanner"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
	"github.com/RealNoorMuhammad/nfcpay/internal/storage"
	"github.com/RealNoorMuhammad/nfcpay/internal/walletext"
)

// Router wires handlers and middleware for the wallet API.
type Router struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    storage.Store
	ledger   *ledger.Ledger
	journal  *journal.Journal
	orch     *service.Orchestrator
	deposits *card.Service
	scanner  scanner.Scanner
	wallet   walletext.Provider
	hub      *ws.Hub
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	store storage.Store,
	l *ledger.Ledger,
	j *journal.Journal,
	orch *service.Orchestrator,
	deposits *card.Service,
	scan scanner.Scanner,
	wallet walletext.Provider,
	hub *ws.Hub,
) *Router {
	return &Router{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		ledger:   l,
		journal:  j,
		orch:     orch,
		deposits: deposits,
		scanner:  scan,
		wallet:   wallet,
		hub:      hub,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

	healthHandler := handler.NewHealthHandler(api.store)
	walletHandler := handler.NewWalletHandler(api.ledger, api.wallet)
	paymentHandler := handler.NewPaymentHandler(api.orch)
	depositHandler := handler.NewDepositHandler(api.deposits)
	scanHandler := handler.NewScanHandler(api.scanner, api.cfg.ScanTimeout)
	txHandler := handler.NewTransactionHandler(api.journal)

	r.Get("/healthz/live", healthHandler.Live)
	r.Get("/healthz/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	if api.hub != nil {
		r.Get("/ws", api.hub.ServeWS)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/wallet/balance", walletHandler.GetBalance)
		r.Post("/wallet/reset", walletHandler.Reset)
		r.Get("/wallet/external", walletHandler.External)

		r.Get("/transactions", txHandler.List)
		r.Delete("/transactions", txHandler.Clear)

		r.Post("/payments/pay", paymentHandler.Pay)
		r.Post("/payments/send", paymentHandler.Send)

		r.Post("/scan", scanHandler.Scan)

		r.Post("/deposits", depositHandler.Create)
		r.Post("/deposits/{id}/retry", depositHandler.Retry)
		r.Delete("/deposits/{id}", depositHandler.Cancel)
	})

	return r
}
