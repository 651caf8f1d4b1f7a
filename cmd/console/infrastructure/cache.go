package infrastructure

import (
	"user-console/internal/config"
	redisclient "user-console/pkg/redis"

	"go.uber.org/zap"
)

// NeedsRedis reports whether any configured component is backed by Redis.
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Session.Backend == "redis" || cfg.RateLimit.Enabled
}

// NewRedisClient connects the Redis shared by sessions and rate limiting.
func NewRedisClient(cfg config.RedisConfig, l *zap.Logger) (*redisclient.Client, error) {
	return redisclient.NewClient(redisclient.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		PoolSize:    cfg.PoolSize,
		MinIdleConn: cfg.MinIdleConn,
	}, l)
}
