// Package ratelimit provides the storage backend for the submission limiter.
package ratelimit

import (
	"github.com/gofiber/fiber/v2"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"

	"cardforge/internal/infra/logging"
)

// RedisConfig selects the optional Redis backend. An empty Addr keeps the
// in-memory store.
type RedisConfig struct {
	Addr string
	DB   int
}

// NewStore returns a Redis-backed fiber.Storage when configured, falling back
// to the in-memory store if Redis initialization panics. It never returns nil.
func NewStore(cfg RedisConfig) fiber.Storage {
	store := fiber.Storage(memoryStorage.New())
	if cfg.Addr == "" {
		return store
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
			}
		}()
		store = redisStorage.New(redisStorage.Config{
			Addrs:    []string{cfg.Addr},
			Database: cfg.DB,
		})
		logging.Info("Using Redis for rate limiting", "addr", cfg.Addr, "db", cfg.DB)
	}()
	return store
}
