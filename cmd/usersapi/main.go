package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"user-console/cmd/usersapi/infrastructure"
	"user-console/internal/adapter/db/gormstore"
	"user-console/internal/config"
	"user-console/internal/mockapi"
	"user-console/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateMockAPI(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      "users-api",
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Env,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := infrastructure.CloseDatabase(db); err != nil {
			l.Error("failed to close database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := gormstore.NewUserRepo(db, l)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	if cfg.MockAPI.Seed {
		seeded, err := repo.Seed(ctx, mockapi.SeedUsers())
		if err != nil {
			return err
		}
		l.Info("seed checked", zap.Bool("inserted", seeded))
	}

	srv := &http.Server{
		Addr: ":" + cfg.MockAPI.Port,
		Handler: mockapi.NewRouter(mockapi.NewHandler(repo, l), mockapi.RouterOptions{
			CORSOrigins:        cfg.MockAPI.CORSOrigins,
			RateLimitPerMinute: cfg.MockAPI.RateLimitPerMinute,
		}, l),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		l.Info("users API running",
			zap.String("address", srv.Addr),
			zap.String("swagger", "http://localhost"+srv.Addr+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down users API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
