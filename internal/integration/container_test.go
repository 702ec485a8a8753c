package integration_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/metinatakli/payment-orchestrator/internal/app"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const migrationsSource = "file://../../migrations"

// containerEnv holds the Postgres and Redis containers shared by a suite.
type containerEnv struct {
	postgres *postgres.PostgresContainer
	redis    *tcredis.RedisContainer

	DatabaseURL string
	RedisURL    string
}

func startContainers(ctx context.Context) (*containerEnv, error) {
	env := &containerEnv{}

	pg, err := postgres.Run(ctx, dbImageName,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						dbUser, dbPassword, host, port.Port(), dbName)
				}),
			).WithDeadline(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	env.postgres = pg

	env.DatabaseURL, err = pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		env.terminate()
		return nil, fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	if err := app.RunMigrations(env.DatabaseURL, migrationsSource); err != nil {
		env.terminate()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := tcredis.Run(ctx, cacheImageName)
	if err != nil {
		env.terminate()
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}
	env.redis = rc

	env.RedisURL, err = rc.ConnectionString(ctx)
	if err != nil {
		env.terminate()
		return nil, fmt.Errorf("failed to get redis connection string: %w", err)
	}

	return env, nil
}

func (e *containerEnv) terminate() error {
	var errs []error

	if e.postgres != nil {
		errs = append(errs, testcontainers.TerminateContainer(e.postgres))
	}
	if e.redis != nil {
		errs = append(errs, testcontainers.TerminateContainer(e.redis))
	}

	return errors.Join(errs...)
}
