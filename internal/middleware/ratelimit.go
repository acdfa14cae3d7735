package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/owner"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter applies a sliding-window limit of cfg.RateLimitMax requests per
// cfg.RateLimitWindow. Authenticated requests are counted per owner, anything
// else per client IP. A nil storage keeps counters in process memory.
func RateLimiter(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      rateLimitKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Message: "Too many requests, please try again later",
			})
		},
		Storage: storage,
	})
}

func rateLimitKey(c *fiber.Ctx) string {
	if id, err := owner.FromContext(c); err == nil {
		return "rl:owner:" + id.String()
	}
	return "rl:ip:" + c.IP()
}

// NewRateLimitStorage returns Redis-backed limiter storage when Redis is
// enabled, and nil otherwise.
func NewRateLimitStorage(cfg *config.Config) (fiber.Storage, error) {
	if !cfg.RedisEnabled {
		return nil, nil
	}

	storage := NewRedisStorage(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := storage.client.Ping(ctx).Err(); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	slog.Info("rate limit storage", "backend", "redis", "addr", cfg.RedisAddr)
	return storage, nil
}

// RedisStorage implements fiber.Storage for Redis.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Get returns nil, nil for a missing key as fiber.Storage requires.
func (r *RedisStorage) Get(key string) ([]byte, error) {
	val, err := r.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return r.client.Set(context.Background(), key, val, exp).Err()
}

func (r *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return r.client.Del(context.Background(), key).Err()
}

func (r *RedisStorage) Reset() error {
	return r.client.FlushDB(context.Background()).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
