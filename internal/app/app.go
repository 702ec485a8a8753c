package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/events"
	"github.com/metinatakli/payment-orchestrator/internal/lock"
	"github.com/metinatakli/payment-orchestrator/internal/payment"
	"github.com/metinatakli/payment-orchestrator/internal/repository"
	"github.com/metinatakli/payment-orchestrator/internal/service"
	appvalidator "github.com/metinatakli/payment-orchestrator/internal/validator"
	"github.com/metinatakli/payment-orchestrator/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "payment-orchestrator"

var (
	version = vcs.Version()
)

type Application struct {
	config   Config
	logger   *slog.Logger
	payments *service.PaymentService
}

func NewApp(cfg Config, logger *slog.Logger, payments *service.PaymentService) *Application {
	return &Application{
		config:   cfg,
		logger:   logger,
		payments: payments,
	}
}

func Run() error {
	cfg, displayVersion, err := LoadConfig()
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(newFanoutHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	var repo domain.PaymentRepository = repository.NewMemoryPaymentRepository()

	if cfg.DB.DSN != "" {
		if cfg.MigrationsPath != "" {
			err = RunMigrations(cfg.DB.DSN, cfg.MigrationsPath)
			if err != nil {
				return err
			}
		}

		db, err := NewDatabasePool(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		repo = repository.NewPostgresPaymentRepository(db)
	} else {
		logger.Warn("database DSN not set, payments are kept in memory")
	}

	var (
		publisher domain.EventPublisher = events.NewLogPublisher(logger)
		locker    lock.Locker           = lock.NewKeyedMutex()
	)

	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		publisher = events.NewRedisStreamPublisher(redisClient, cfg.Redis.StreamPrefix, cfg.Redis.StreamMaxLen)
		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL, logger)
	} else {
		logger.Warn("redis URL not set, events are logged and locks are process local")
	}

	providers := NewProviders(cfg.Providers)
	for _, p := range []interface{ Validate() error }{
		cfg.Providers.VNPay, cfg.Providers.MoMo, cfg.Providers.VietQR, cfg.Providers.PayOS,
	} {
		if err := p.Validate(); err != nil {
			logger.Warn("payment provider disabled", "reason", err)
		}
	}

	payments, err := service.NewPaymentService(service.Options{
		Repository:    repo,
		Publisher:     publisher,
		Locker:        locker,
		Providers:     providers,
		Validator:     appvalidator.NewValidator(),
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	return NewApp(cfg, logger, payments).run()
}

// NewProviders builds every gateway adapter. Adapters with incomplete
// credentials are still returned and report domain.ErrConfig when used.
func NewProviders(cfg ProvidersConfig) []domain.PaymentProvider {
	client := payment.NewHTTPClient(cfg.Timeout)

	return []domain.PaymentProvider{
		payment.NewVNPayProvider(cfg.VNPay),
		payment.NewMoMoProvider(cfg.MoMo, client),
		payment.NewPayOSProvider(cfg.VietQR, client),
		payment.NewPayOSProvider(cfg.PayOS, client),
	}
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.Redis.URL}
	if strings.Contains(cfg.Redis.URL, "://") {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}

	opts.MaxIdleConns = cfg.Redis.MaxIdleConns
	opts.MaxActiveConns = cfg.Redis.MaxOpenConns
	opts.ConnMaxIdleTime = cfg.Redis.MaxIdleTime

	rdb := redis.NewClient(opts)

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
