package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-console/internal/usecase/user"
	apperrors "user-console/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps an error to its HTTP status. Untyped failures of a remote
// call surface as 502.
func statusFor(err error) int {
	if errors.Is(err, user.ErrLoadFailed) {
		return http.StatusBadGateway
	}
	status := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError && !isInternal(err) {
		return http.StatusBadGateway
	}
	return status
}

func isInternal(err error) bool {
	var internal *apperrors.InternalError
	return errors.As(err, &internal)
}

// errorCode is the machine-readable "error" field of ErrorResponse.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	case http.StatusBadGateway:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

// handleError converts usecase errors to JSON error responses
func handleError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{
		Error:   errorCode(status),
		Message: err.Error(),
	}

	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		resp.Fields = validation.Fields
	}
	if errors.Is(err, user.ErrLoadFailed) {
		resp.Message = user.LoadFailedMessage
	}
	if status == http.StatusInternalServerError {
		resp.Message = "An internal error occurred"
	}

	c.JSON(status, resp)
}
