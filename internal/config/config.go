package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort           string
	StorageBackend     string // badger | redis | memory
	DataDir            string
	RedisURL           string
	PayDelay           time.Duration
	SendDelay          time.Duration
	DepositDelay       time.Duration
	ScanDelay          time.Duration
	ScanTimeout        time.Duration
	ScanMerchant       string
	ScanAmount         decimal.Decimal
	MaxAmount          decimal.Decimal
	DepositFailFirst   bool
	SessionTTL         time.Duration
	GCInterval         time.Duration
	SweepInterval      time.Duration
	PublicRateLimitRPS int
	WalletRPCURL       string
	WalletAddress      string
	LogLevel           string
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "NFCPAY_PORT")
	bindEnv(v, "storage_backend", "STORAGE_BACKEND", "NFCPAY_STORAGE_BACKEND")
	bindEnv(v, "data_dir", "DATA_DIR", "NFCPAY_DATA_DIR")
	bindEnv(v, "redis_url", "REDIS_URL", "NFCPAY_REDIS_URL")
	bindEnv(v, "pay_delay", "PAY_DELAY", "NFCPAY_PAY_DELAY")
	bindEnv(v, "send_delay", "SEND_DELAY", "NFCPAY_SEND_DELAY")
	bindEnv(v, "deposit_delay", "DEPOSIT_DELAY", "NFCPAY_DEPOSIT_DELAY")
	bindEnv(v, "scan_delay", "SCAN_DELAY", "NFCPAY_SCAN_DELAY")
	bindEnv(v, "scan_timeout", "SCAN_TIMEOUT", "NFCPAY_SCAN_TIMEOUT")
	bindEnv(v, "scan_merchant", "SCAN_MERCHANT", "NFCPAY_SCAN_MERCHANT")
	bindEnv(v, "scan_amount", "SCAN_AMOUNT", "NFCPAY_SCAN_AMOUNT")
	bindEnv(v, "max_amount", "MAX_AMOUNT", "NFCPAY_MAX_AMOUNT")
	bindEnv(v, "deposit_fail_first", "DEPOSIT_FAIL_FIRST", "NFCPAY_DEPOSIT_FAIL_FIRST")
	bindEnv(v, "session_ttl", "SESSION_TTL", "NFCPAY_SESSION_TTL")
	bindEnv(v, "gc_interval", "GC_INTERVAL", "NFCPAY_GC_INTERVAL")
	bindEnv(v, "sweep_interval", "SWEEP_INTERVAL", "NFCPAY_SWEEP_INTERVAL")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "NFCPAY_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "wallet_rpc_url", "WALLET_RPC_URL", "NFCPAY_WALLET_RPC_URL")
	bindEnv(v, "wallet_address", "WALLET_ADDRESS", "NFCPAY_WALLET_ADDRESS")
	bindEnv(v, "log_level", "LOG_LEVEL", "NFCPAY_LOG_LEVEL")

	v.SetDefault("port", "8080")
	v.SetDefault("storage_backend", "badger")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	// Simulated latencies from the original demo.
	v.SetDefault("pay_delay", "2.5s")
	v.SetDefault("send_delay", "2s")
	v.SetDefault("deposit_delay", "1.5s")
	v.SetDefault("scan_delay", "1.5s")
	v.SetDefault("scan_timeout", "30s")
	v.SetDefault("scan_merchant", "Test Merchant")
	v.SetDefault("scan_amount", "25.50")
	v.SetDefault("max_amount", "10000")
	v.SetDefault("deposit_fail_first", true)
	v.SetDefault("session_ttl", "15m")
	v.SetDefault("gc_interval", "5m")
	v.SetDefault("sweep_interval", "1m")
	v.SetDefault("public_rate_limit_rps", 25)
	v.SetDefault("wallet_rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("wallet_address", "")
	v.SetDefault("log_level", "info")

	cfg := &Config{
		HTTPPort:           v.GetString("port"),
		StorageBackend:     v.GetString("storage_backend"),
		DataDir:            v.GetString("data_dir"),
		RedisURL:           v.GetString("redis_url"),
		ScanMerchant:       v.GetString("scan_merchant"),
		DepositFailFirst:   v.GetBool("deposit_fail_first"),
		PublicRateLimitRPS: max(v.GetInt("public_rate_limit_rps"), 1),
		WalletRPCURL:       v.GetString("wallet_rpc_url"),
		WalletAddress:      v.GetString("wallet_address"),
		LogLevel:           v.GetString("log_level"),
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"pay_delay", &cfg.PayDelay},
		{"send_delay", &cfg.SendDelay},
		{"deposit_delay", &cfg.DepositDelay},
		{"scan_delay", &cfg.ScanDelay},
		{"scan_timeout", &cfg.ScanTimeout},
		{"session_ttl", &cfg.SessionTTL},
		{"gc_interval", &cfg.GCInterval},
		{"sweep_interval", &cfg.SweepInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.name))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	maxAmount, err := decimal.NewFromString(v.GetString("max_amount"))
	if err != nil || !maxAmount.IsPositive() {
		return nil, fmt.Errorf("invalid MAX_AMOUNT: %q", v.GetString("max_amount"))
	}
	cfg.MaxAmount = maxAmount

	scanAmount, err := decimal.NewFromString(v.GetString("scan_amount"))
	if err != nil || !scanAmount.IsPositive() {
		return nil, fmt.Errorf("invalid SCAN_AMOUNT: %q", v.GetString("scan_amount"))
	}
	cfg.ScanAmount = scanAmount

	switch cfg.StorageBackend {
	case "badger", "redis", "memory":
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q (expected badger, redis or memory)", cfg.StorageBackend)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
