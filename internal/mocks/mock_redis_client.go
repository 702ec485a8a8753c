package mocks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockRedisClient stubs the commands used by the Redis lock and the stream
// publisher. Any other command panics through the nil embedded client.
type MockRedisClient struct {
	mock.Mock
	redis.UniversalClient
}

func (m *MockRedisClient) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

// EvalSha and Eval are what redis.Script.Run issues for the lock release script.
func (m *MockRedisClient) EvalSha(ctx context.Context, sha1 string, keys []string, args ...any) *redis.Cmd {
	return m.Called(append([]any{ctx, sha1, keys}, args...)...).Get(0).(*redis.Cmd)
}

func (m *MockRedisClient) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	return m.Called(append([]any{ctx, script, keys}, args...)...).Get(0).(*redis.Cmd)
}

func (m *MockRedisClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	args := m.Called(ctx, a)
	return args.Get(0).(*redis.StringCmd)
}

// MockRedisError is a server-side reply error such as READONLY.
type MockRedisError struct {
	Msg string
}

func (e MockRedisError) Error() string { return e.Msg }

func (e MockRedisError) RedisError() {}
