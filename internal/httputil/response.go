// Package httputil provides the thin JSON error-response helpers shared by
// the ambient HTTP server: ErrorResponse, HandleError, and the mapping of
// domain errors onto HTTP responses. The business routing these would sit
// behind is out of scope (spec.md §1).
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// ErrorResponse is the structured body written for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleError maps a domain error to an HTTP status code and writes the
// corresponding ErrorResponse, logging the full (unwrapped) error server-side.
func HandleError(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, resp := mapError(err)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", resp.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, resp)
}

func mapError(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "the requested resource was not found"}
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "conflict", Message: "a conflict occurred with existing data"}
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid_input", Message: err.Error()}
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication is required"}
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: "you don't have permission to access this resource"}
	case apperrors.Is(err, apperrors.ErrSealed):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "sealed", Message: "the vault is sealed"}
	case apperrors.Is(err, apperrors.ErrLocked):
		return http.StatusLocked, ErrorResponse{Error: "locked", Message: "the resource is temporarily locked"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "an internal error occurred"}
	}
}
