package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/payment-orchestrator/internal/app"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/events"
	"github.com/metinatakli/payment-orchestrator/internal/lock"
	"github.com/metinatakli/payment-orchestrator/internal/payment"
	"github.com/metinatakli/payment-orchestrator/internal/repository"
	"github.com/metinatakli/payment-orchestrator/internal/service"
	appvalidator "github.com/metinatakli/payment-orchestrator/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App         *app.Application
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Repo        *repository.PostgresPaymentRepository
	Locker      *lock.RedisLocker
	Publisher   *events.RedisStreamPublisher
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	repo := repository.NewPostgresPaymentRepository(db)
	locker := lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL, logger)
	publisher := events.NewRedisStreamPublisher(redisClient, cfg.Redis.StreamPrefix, cfg.Redis.StreamMaxLen)

	payments, err := service.NewPaymentService(service.Options{
		Repository: repo,
		Publisher:  publisher,
		Locker:     locker,
		Providers: []domain.PaymentProvider{
			payment.NewVNPayProvider(payment.VNPayConfig{
				TmnCode:    TestVNPayTmnCode,
				HashSecret: TestVNPaySecret,
				PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
				ResultURL:  cfg.ResultURL,
			}),
		},
		Validator:     appvalidator.NewValidator(),
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	})
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	return &TestApp{
		App:         app.NewApp(cfg, logger, payments),
		DB:          db,
		RedisClient: redisClient,
		Repo:        repo,
		Locker:      locker,
		Publisher:   publisher,
	}, nil
}

func (a *TestApp) Close() {
	a.RedisClient.Close()
	a.DB.Close()
}
