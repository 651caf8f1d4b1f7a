package mockapi

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/middleware"
	"user-console/pkg/logger"
)

//go:embed openapi.json
var openAPIDoc []byte

// RouterOptions configures the users API HTTP surface.
type RouterOptions struct {
	CORSOrigins        []string
	RateLimitPerMinute int // 0 disables the per-IP limit
}

// NewRouter builds the users API handler, wrapped with CORS and a per-IP rate limit.
func NewRouter(h *Handler, opts RouterOptions, log *zap.Logger) http.Handler {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "users-api",
		})
	})

	// Serve the OpenAPI document and Swagger UI
	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPIDoc)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	)))

	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	var handler http.Handler = router
	if opts.RateLimitPerMinute > 0 {
		handler = httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute)(handler)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders: []string{logger.RequestIDHeader},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	})(handler)
}
