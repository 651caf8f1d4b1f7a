package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/middleware"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/user"
	apperrors "user-console/pkg/errors"
)

// APIHandler serves the JSON flavour of the console under /api/v1. It shares
// the browser session, so it sees the same list as the HTML pages.
type APIHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewAPIHandler creates a new APIHandler instance
func NewAPIHandler(uc user.Usecase, log *zap.Logger) *APIHandler {
	return &APIHandler{
		uc:  uc,
		log: log,
	}
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []domain.User    `json:"users"`
	Count int              `json:"count"`
	Total int              `json:"total"`
	View  domain.ViewState `json:"view"`
}

// ListUsers handles GET /api/v1/users
func (h *APIHandler) ListUsers(c *gin.Context) {
	req := user.ListUsersRequest{
		SortField:     c.Query("sort"),
		SortDirection: c.Query("dir"),
		ReadOnly:      true,
	}
	if q, ok := c.GetQuery("q"); ok {
		req.Search = &q
	}

	h.log.Info("API ListUsers request", zap.String("q", c.Query("q")), zap.String("sort", req.SortField))

	resp, err := h.uc.ListUsers(c.Request.Context(), middleware.SessionState(c), req)
	if err != nil {
		h.log.Error("API ListUsers failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users: resp.Users,
		Count: len(resp.Users),
		Total: resp.Total,
		View:  resp.View,
	})
}

// LookupByEmail handles GET /api/v1/users/lookup?email=
func (h *APIHandler) LookupByEmail(c *gin.Context) {
	email := c.Query("email")

	users, err := h.uc.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.log.Error("API LookupByEmail failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /api/v1/users/:id
func (h *APIHandler) GetUser(c *gin.Context) {
	id, ok := parseAPIID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), middleware.SessionState(c), id)
	if err != nil {
		h.log.Error("API GetUser failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// CreateUser handles POST /api/v1/users
func (h *APIHandler) CreateUser(c *gin.Context) {
	var body domain.User
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Warn("Invalid create user request", zap.Error(err))
		handleError(c, badRequest(err))
		return
	}

	created, err := h.uc.CreateUser(c.Request.Context(), middleware.SessionState(c), user.CreateUserRequest{
		UserInput: user.InputFromUser(body),
	})
	if err != nil {
		h.log.Error("API CreateUser failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateUser handles PUT /api/v1/users/:id. An id in the body is ignored.
func (h *APIHandler) UpdateUser(c *gin.Context) {
	id, ok := parseAPIID(c)
	if !ok {
		return
	}

	var body domain.User
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Warn("Invalid update user request", zap.Error(err))
		handleError(c, badRequest(err))
		return
	}

	updated, err := h.uc.UpdateUser(c.Request.Context(), middleware.SessionState(c), user.UpdateUserRequest{
		ID:        id,
		UserInput: user.InputFromUser(body),
	})
	if err != nil {
		h.log.Error("API UpdateUser failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *APIHandler) DeleteUser(c *gin.Context) {
	id, ok := parseAPIID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), middleware.SessionState(c), id); err != nil {
		h.log.Error("API DeleteUser failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func parseAPIID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// badRequestError is a malformed JSON body.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) HTTPStatus() int { return http.StatusBadRequest }

func badRequest(err error) error { return badRequestError{err: err} }

var _ apperrors.HTTPStatuser = badRequestError{}
