package di

import (
	"context"
	"fmt"
	"time"

	"user-console/cmd/console/infrastructure"
	"user-console/internal/adapter/gin/handler"
	"user-console/internal/adapter/gin/middleware"
	ginrouter "user-console/internal/adapter/gin/router"
	sessionstore "user-console/internal/adapter/session"
	"user-console/internal/adapter/usersapi"
	"user-console/internal/config"
	"user-console/internal/domain/session"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/user"
	redisclient "user-console/pkg/redis"

	"go.uber.org/zap"
)

// sweepInterval is how often the in-memory session store drops expired sessions.
const sweepInterval = time.Minute

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	UsersAPI    *usersapi.Client
	UserUC      user.Usecase
	Sessions    sessionstore.Store
	RateLimiter *middleware.RateLimiter
	Console     *handler.ConsoleHandler
	API         *handler.APIHandler

	stopSweeper context.CancelFunc
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	if infrastructure.NeedsRedis(cfg) {
		rdb, err := infrastructure.NewRedisClient(cfg.Redis, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	// Remote users API
	c.UsersAPI = usersapi.NewClient(usersapi.Config{
		BaseURL: cfg.UsersAPI.BaseURL,
		Timeout: time.Duration(cfg.UsersAPI.TimeoutSeconds) * time.Second,
	}, nil, l)

	c.UserUC = user.New(c.UsersAPI, l)

	// Session store
	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second
	switch cfg.Session.Backend {
	case "redis":
		c.Sessions = sessionstore.NewRedisStore(c.RedisClient.Client, ttl, l)
	default:
		mem := sessionstore.NewMemoryStore(ttl)
		ctx, cancel := context.WithCancel(context.Background())
		go mem.RunSweeper(ctx, sweepInterval, l)
		c.Sessions = mem
		c.stopSweeper = cancel
	}
	l.Info("session store ready", zap.String("backend", cfg.Session.Backend), zap.Duration("ttl", ttl))

	if cfg.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           true,
			},
			l,
		)
	}

	c.Console = handler.NewConsoleHandler(c.UserUC, l)
	c.API = handler.NewAPIHandler(c.UserUC, l)

	return c, nil
}

// RouterOptions returns the router wiring for the console server.
func (c *Container) RouterOptions() ginrouter.Options {
	mode, ok := domain.ParseViewMode(c.Config.UI.DefaultView)
	if !ok {
		mode = domain.ModeTable
	}

	return ginrouter.Options{
		Console:  c.Console,
		API:      c.API,
		Sessions: c.Sessions,
		Session: middleware.SessionConfig{
			CookieName:   c.Config.Session.CookieName,
			TTL:          time.Duration(c.Config.Session.TTLSeconds) * time.Second,
			Secure:       c.Config.Session.CookieSecure,
			DefaultMode:  mode,
			DefaultTheme: session.ParseTheme(c.Config.UI.DefaultTheme),
		},
		RateLimiter: c.RateLimiter,
		Log:         c.Logger,
		Release:     c.Config.App.Env == "production",
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.stopSweeper != nil {
		c.stopSweeper()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}
