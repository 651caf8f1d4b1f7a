package server

import (
	"fmt"
	"net/http"
	"time"

	ginrouter "user-console/internal/adapter/gin/router"

	"go.uber.org/zap"
)

// SetupGinServer creates the console HTTP server around the Gin router.
func SetupGinServer(opts ginrouter.Options, addr string, l *zap.Logger) (*http.Server, error) {
	router, err := ginrouter.SetupRouter(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	l.Info("console router configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		// remote calls are bounded by the users API timeout
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}, nil
}
