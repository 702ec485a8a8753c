package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultLockTTL    = 30 * time.Second
	defaultKeyPrefix  = "payment_lock:"
	releaseTimeout    = 2 * time.Second
	initialRetryDelay = 20 * time.Millisecond
	maxRetryDelay     = 500 * time.Millisecond
)

var errLockHeld = errors.New("lock held by another owner")

// Only the owner's token may delete the key.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker is a Locker shared by every instance of the service. The key
// expires after TTL so a crashed holder cannot block a reference forever.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	return &RedisLocker{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialRetryDelay
	b.MaxInterval = maxRetryDelay

	_, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return false, backoff.Permanent(err)
		}
		if !ok {
			return false, errLockHeld
		}

		return true, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(0))

	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
		if err != nil {
			l.logger.Error("failed to release lock", "key", redisKey, "error", err)
		}
	}, nil
}
