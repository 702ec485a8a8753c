package app

import (
	"flag"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/payment"
)

type Config struct {
	Port int
	Env  string
	// PublicBaseURL is the externally reachable base of this service. Gateway
	// callback and return URLs are built from it.
	PublicBaseURL string
	// ResultURL is the frontend page returning customers are redirected to.
	ResultURL        string
	OperatorToken    string
	OtelCollectorUrl string
	// MigrationsPath, when set, is applied to the database on startup.
	MigrationsPath string
	DB             DBConfig
	Redis          RedisConfig
	Providers      ProvidersConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	StreamPrefix string
	StreamMaxLen int64
	LockTTL      time.Duration
}

type ProvidersConfig struct {
	Timeout time.Duration
	VNPay   payment.VNPayConfig
	MoMo    payment.MoMoConfig
	VietQR  payment.PayOSConfig
	PayOS   payment.PayOSConfig
}

// ParseConfig reads flags from args. Every flag defaults to an environment
// variable so a .env file is enough for local development.
func ParseConfig(args []string, getenv func(string) string) (Config, bool, error) {
	var cfg Config

	fs := flag.NewFlagSet("payment-orchestrator", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&cfg.Port, "port", envInt(getenv, "PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", envString(getenv, "ENV", "dev"), "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.PublicBaseURL, "public-base-url", envString(getenv, "PUBLIC_BASE_URL", "http://localhost:3000"), "Externally reachable base URL")
	fs.StringVar(&cfg.ResultURL, "result-url", envString(getenv, "RESULT_URL", ""), "Frontend payment result page")
	fs.StringVar(&cfg.OperatorToken, "operator-token", envString(getenv, "OPERATOR_TOKEN", ""), "Token required for operator actions")
	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString(getenv, "OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector endpoint")
	fs.StringVar(&cfg.MigrationsPath, "migrations-path", envString(getenv, "MIGRATIONS_PATH", ""), "Migrations source URL, e.g. file://migrations")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", envString(getenv, "DB_DSN", ""), "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", envInt(getenv, "DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", envDuration(getenv, "DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")

	fs.StringVar(&cfg.Redis.URL, "redis-url", envString(getenv, "REDIS_URL", ""), "Redis URL")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", envInt(getenv, "REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", envInt(getenv, "REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", envDuration(getenv, "REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")
	fs.StringVar(&cfg.Redis.StreamPrefix, "redis-stream-prefix", envString(getenv, "REDIS_STREAM_PREFIX", "events:"), "Redis stream key prefix for payment events")
	fs.Int64Var(&cfg.Redis.StreamMaxLen, "redis-stream-max-len", int64(envInt(getenv, "REDIS_STREAM_MAX_LEN", 100000)), "Approximate max length of each event stream")
	fs.DurationVar(&cfg.Redis.LockTTL, "redis-lock-ttl", envDuration(getenv, "REDIS_LOCK_TTL", 30*time.Second), "Expiry of per-reference locks")

	p := &cfg.Providers
	fs.DurationVar(&p.Timeout, "provider-timeout", envDuration(getenv, "PROVIDER_TIMEOUT", payment.DefaultTimeout), "Timeout of outbound gateway calls")

	fs.StringVar(&p.VNPay.TmnCode, "vnpay-tmn-code", envString(getenv, "VNPAY_TMN_CODE", ""), "VNPay terminal code")
	fs.StringVar(&p.VNPay.HashSecret, "vnpay-hash-secret", envString(getenv, "VNPAY_HASH_SECRET", ""), "VNPay hash secret")
	fs.StringVar(&p.VNPay.PayURL, "vnpay-url", envString(getenv, "VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"), "VNPay payment page")
	fs.StringVar(&p.VNPay.Locale, "vnpay-locale", envString(getenv, "VNPAY_LOCALE", "vn"), "VNPay page locale")

	fs.StringVar(&p.MoMo.PartnerCode, "momo-partner-code", envString(getenv, "MOMO_PARTNER_CODE", ""), "MoMo partner code")
	fs.StringVar(&p.MoMo.AccessKey, "momo-access-key", envString(getenv, "MOMO_ACCESS_KEY", ""), "MoMo access key")
	fs.StringVar(&p.MoMo.SecretKey, "momo-secret-key", envString(getenv, "MOMO_SECRET_KEY", ""), "MoMo secret key")
	fs.StringVar(&p.MoMo.Endpoint, "momo-endpoint", envString(getenv, "MOMO_ENDPOINT", "https://test-payment.momo.vn"), "MoMo API base URL")
	fs.StringVar(&p.MoMo.Lang, "momo-lang", envString(getenv, "MOMO_LANG", "vi"), "MoMo page language")

	fs.StringVar(&p.VietQR.ClientID, "vietqr-client-id", envString(getenv, "VIETQR_CLIENT_ID", ""), "payOS client id used for VietQR")
	fs.StringVar(&p.VietQR.APIKey, "vietqr-api-key", envString(getenv, "VIETQR_API_KEY", ""), "payOS api key used for VietQR")
	fs.StringVar(&p.VietQR.ChecksumKey, "vietqr-checksum-key", envString(getenv, "VIETQR_CHECKSUM_KEY", ""), "payOS checksum key used for VietQR")
	fs.StringVar(&p.VietQR.BaseURL, "vietqr-base-url", envString(getenv, "VIETQR_BASE_URL", "https://api-merchant.payos.vn"), "payOS API base URL used for VietQR")

	fs.StringVar(&p.PayOS.ClientID, "payos-client-id", envString(getenv, "PAYOS_CLIENT_ID", ""), "payOS client id")
	fs.StringVar(&p.PayOS.APIKey, "payos-api-key", envString(getenv, "PAYOS_API_KEY", ""), "payOS api key")
	fs.StringVar(&p.PayOS.ChecksumKey, "payos-checksum-key", envString(getenv, "PAYOS_CHECKSUM_KEY", ""), "payOS checksum key")
	fs.StringVar(&p.PayOS.BaseURL, "payos-base-url", envString(getenv, "PAYOS_BASE_URL", "https://api-merchant.payos.vn"), "payOS API base URL")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, false, err
	}

	cfg.applyProviderDefaults()

	return cfg, *displayVersion, nil
}

// applyProviderDefaults fills the settings every adapter derives from the
// service level configuration.
func (cfg *Config) applyProviderDefaults() {
	p := &cfg.Providers

	p.VNPay.ResultURL = cfg.ResultURL
	p.MoMo.ResultURL = cfg.ResultURL

	p.VietQR.Method = domain.PaymentMethodVietQR
	p.VietQR.ExposeQR = true
	p.PayOS.Method = domain.PaymentMethodPayOS

	for _, c := range []*payment.PayOSConfig{&p.VietQR, &p.PayOS} {
		if c.ReturnURL == "" {
			c.ReturnURL = cfg.ResultURL
		}
		if c.CancelURL == "" {
			c.CancelURL = cfg.ResultURL
		}
	}
}

// LoadConfig loads .env, when present, and parses the process arguments.
func LoadConfig() (Config, bool, error) {
	_ = godotenv.Load()

	return ParseConfig(os.Args[1:], os.Getenv)
}

func envString(getenv func(string) string, key, fallback string) string {
	if value := getenv(key); value != "" {
		return value
	}

	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key))
	if err != nil {
		return fallback
	}

	return n
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(key))
	if err != nil {
		return fallback
	}

	return d
}
