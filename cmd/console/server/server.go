package server

import (
	"errors"
	"fmt"
	"net/http"

	ginrouter "user-console/internal/adapter/gin/router"
	"user-console/internal/config"

	"go.uber.org/zap"
)

// Server holds the console HTTP server.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates the server. The listener is not opened until Start.
func New(cfg *config.Config, l *zap.Logger, opts ginrouter.Options) (*Server, error) {
	ginServer, err := SetupGinServer(opts, httpAddress(cfg), l)
	if err != nil {
		return nil, err
	}

	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    ginServer,
	}, nil
}

// Start serves HTTP until the server is shut down.
func (s *Server) Start() error {
	s.Logger.Info("console running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
