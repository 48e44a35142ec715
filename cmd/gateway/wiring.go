package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/mindengage-rewards/internal/cache"
	"github.com/mind-engage/mindengage-rewards/internal/config"
	"github.com/mind-engage/mindengage-rewards/internal/content"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/progress"
	"github.com/mind-engage/mindengage-rewards/internal/storage"
	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

// openCache picks the progress cache driver. The returned func releases it.
func openCache(ctx context.Context, cfg config.Config, dbh *sql.DB) (progress.Cache, func(), error) {
	noop := func() {}
	switch cfg.CacheDriver {
	case "sql", "":
		return cache.NewSQL(dbh), noop, nil
	case "file":
		fs, err := storage.NewFSStore(cfg.CachePath)
		if err != nil {
			return nil, noop, fmt.Errorf("cache dir: %w", err)
		}
		return cache.NewFile(fs), noop, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c := cache.NewRedis(rdb, cfg.RedisPrefix)
		if err := c.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("redis: %w", err)
		}
		return c, func() { _ = rdb.Close() }, nil
	case "memory":
		return cache.NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported cache driver: %s", cfg.CacheDriver)
	}
}

func openSource(cfg config.Config) (progress.Source, error) {
	if cfg.ContentURL != "" {
		return content.NewHTTPSource(cfg.ContentURL, 15*time.Second), nil
	}
	fs, err := storage.NewFSStore(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	return content.NewFileSource(fs), nil
}

// openSession connects the configured wallet. Without one, the gateway still
// records completions locally and every reward submission fails.
func openSession(cfg config.Config, log *logger.Logger) *wallet.Session {
	if cfg.StudentAddress == "" {
		log.Warn("no wallet connected; rewards will not be submitted")
		return nil
	}
	s, err := wallet.NewSession(cfg.StudentAddress, cfg.RelayJWTSecret)
	if err != nil {
		log.Warn("wallet session unavailable", "error", err)
		return nil
	}
	return s
}
