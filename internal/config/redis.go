package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client when REDIS_ADDR is set, nil otherwise
func ConnectRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		GetLogger().Info("ℹ️ REDIS_ADDR not set; using in-process broker and locks")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 50,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", cfg.Redis.Addr, err)
	}

	GetLogger().Infof("✅ Redis connected [%s]", cfg.Redis.Addr)
	return rdb, nil
}
