package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	paymentCounter        *prometheus.CounterVec
	scanCounter           *prometheus.CounterVec
	depositRetryCounter   *prometheus.CounterVec
	wsClientsGauge        prometheus.Gauge
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		paymentCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfers_total",
			Help: "Transfer requests by flow and outcome",
		}, []string{"flow", "outcome"})

		scanCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_scans_total",
			Help: "NFC scan attempts by result",
		}, []string{"result"})

		depositRetryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_deposit_retries_total",
			Help: "Card deposit retry submissions by outcome",
		}, []string{"outcome"})

		wsClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_ws_clients",
			Help: "Connected websocket event subscribers",
		})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			paymentCounter,
			scanCounter,
			depositRetryCounter,
			wsClientsGauge,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementPayment(flow, outcome string) {
	if paymentCounter == nil {
		return
	}
	paymentCounter.WithLabelValues(flow, outcome).Inc()
}

func IncrementScan(result string) {
	if scanCounter == nil {
		return
	}
	scanCounter.WithLabelValues(result).Inc()
}

func IncrementDepositRetry(outcome string) {
	if depositRetryCounter == nil {
		return
	}
	depositRetryCounter.WithLabelValues(outcome).Inc()
}

func SetWSClients(n int) {
	if wsClientsGauge == nil {
		return
	}
	wsClientsGauge.Set(float64(n))
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
