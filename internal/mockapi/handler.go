package mockapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// Store is the persistence the users API serves from.
type Store interface {
	List(ctx context.Context, email string) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, u user.User) (*user.User, error)
	Update(ctx context.Context, id int64, u user.User) (*user.User, error)
	Delete(ctx context.Context, id int64) error
}

// Handler serves the /users collection.
type Handler struct {
	store Store
	log   *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(store Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// errorBody represents an error response
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /users, optionally filtered by ?email=
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(c *gin.Context) {
	var body user.User
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_body", Message: err.Error()})
		return
	}

	created, err := h.store.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateUser handles PUT /users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body user.User
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_body", Message: err.Error()})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "user not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(status, errorBody{Error: "not_found", Message: err.Error()})
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Error("users API request failed", zap.Error(err))
	if status == http.StatusInternalServerError {
		c.JSON(status, errorBody{Error: "internal_error", Message: "An internal error occurred"})
		return
	}
	c.JSON(status, errorBody{Error: "invalid_input", Message: err.Error()})
}
