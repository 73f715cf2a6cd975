package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "taskpro:ratelimit:"

// fixedWindowScript increments the counter and starts the window on the
// first hit. A key found without expiry gets one again.
var fixedWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {current, ttl}
`)

// RedisLimiter keeps counters in Redis. The check, increment and expiry of
// one key run as a single script, so the ceiling holds across instances.
type RedisLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string, policy Policy) (Decision, error) {
	if !policy.valid() {
		return Decision{}, ErrInvalidPolicy
	}

	now := l.now()
	res, err := fixedWindowScript.Run(ctx, l.client, []string{redisKeyPrefix + counterKey(policy, key)}, policy.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %w", ErrLimiterUnavailable, err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("%w: unexpected script reply of length %d", ErrLimiterUnavailable, len(res))
	}

	resetAt := now.Add(time.Duration(res[1]) * time.Millisecond)
	return decide(policy, int(res[0]), now, resetAt), nil
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrLimiterUnavailable, err)
	}

	return client, nil
}

// Backend is the limiter selected by configuration together with the
// resources it owns.
type Backend struct {
	Limiter

	// Memory is set when counters live in process and need sweeping.
	Memory *MemoryLimiter

	client *redis.Client
}

// NewBackend returns a Redis limiter when an address is configured and an
// in-process one otherwise.
func NewBackend(ctx context.Context, cfg config.Redis, log *logger.Logger) (*Backend, error) {
	if cfg.Address == "" {
		log.Info().Msg("rate limiter uses in-process counters")
		memory := NewMemoryLimiter()
		return &Backend{Limiter: memory, Memory: memory}, nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		log.Err(err).Str("func", "ratelimit.NewBackend").Str("address", cfg.Address).Msg("error connecting to redis")
		return nil, err
	}

	log.Info().Str("address", cfg.Address).Msg("rate limiter uses redis")
	return &Backend{Limiter: NewRedisLimiter(client), client: client}, nil
}

func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}
