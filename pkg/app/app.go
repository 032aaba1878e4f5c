// Package app boots the application's shared services and assembles the
// HTTP handler. cmd/freshmandi and internal/server both build on it.
package app

import (
	"fmt"
	"time"

	"github.com/freshmandi/freshmandi/config"
	"github.com/freshmandi/freshmandi/pkg/cache"
	"github.com/freshmandi/freshmandi/pkg/database"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/notification"
	"github.com/freshmandi/freshmandi/pkg/orm"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"github.com/freshmandi/freshmandi/pkg/storage"
)

// Boot loads configuration and connects every shared service: logger sink,
// database, cache, storage disks, and the queue driver. Redis is optional;
// when it is unavailable the cache no-ops and the queue falls back to the
// in-memory driver.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}

	logger.ConnectSink()

	if err := database.Connect(); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("app: redis unavailable, cache and queue run in-process", "error", err)
	}

	storage.Connect()

	// Wire the read-through cache into the ORM.
	orm.CacheStore = &ormCache{}

	// Durable queue when Redis is up, in-memory otherwise.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	if err := notification.UseDB(database.DB); err != nil {
		return fmt.Errorf("app: notifications: %w", err)
	}

	return nil
}

// Shutdown flushes anything Boot left open.
func Shutdown() {
	logger.CloseSink()
}

// ormCache bridges pkg/cache to the orm.Cacher interface. Lives here so
// neither orm nor cache imports the other.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
