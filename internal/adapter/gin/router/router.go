package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/handler"
	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/gin/view"
	sessionstore "user-console/internal/adapter/session"
	"user-console/pkg/logger"
)

// Options carries everything the console router is built from.
type Options struct {
	Console     *handler.ConsoleHandler
	API         *handler.APIHandler
	Sessions    sessionstore.Store
	Session     middleware.SessionConfig
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Log         *zap.Logger
	Release     bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options) (*gin.Engine, error) {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// Global middleware
	router.Use(middleware.Recovery(opts.Log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(opts.Log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-console",
		})
	})
	router.StaticFS("/static", http.FS(view.Static()))

	app := router.Group("/")
	app.Use(opts.RateLimiter.Middleware())
	app.Use(middleware.Session(opts.Sessions, opts.Session, opts.Log))
	{
		app.GET("/", opts.Console.Index)

		users := app.Group("/users")
		{
			users.GET("", opts.Console.ListUsers)
			users.POST("", opts.Console.CreateUser)
			users.GET("/new", opts.Console.NewUser)
			users.GET("/:id", opts.Console.ShowUser)
			users.POST("/:id", opts.Console.UpdateUser)
			users.GET("/:id/edit", opts.Console.EditUser)
			users.GET("/:id/delete", opts.Console.ConfirmDelete)
			users.POST("/:id/delete", opts.Console.DeleteUser)
		}

		app.GET("/settings", opts.Console.Settings)
		app.POST("/settings/theme", opts.Console.ToggleTheme)

		// API v1 routes
		v1 := app.Group("/api/v1")
		{
			api := v1.Group("/users")
			{
				api.GET("", opts.API.ListUsers)
				api.POST("", opts.API.CreateUser)
				api.GET("/lookup", opts.API.LookupByEmail)
				api.GET("/:id", opts.API.GetUser)
				api.PUT("/:id", opts.API.UpdateUser)
				api.DELETE("/:id", opts.API.DeleteUser)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{
			Error:   "not_found",
			Message: "route not found",
		})
	})

	return router, nil
}
