package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID, ok := c.Get("userId"); ok {
		fields["user_id"] = userID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// AccessError maps an access decision or service error onto the HTTP contract:
// unauthenticated is 401, not found (including hidden records) is 404 and
// validation failures are 400. Anything else is a 500.
func AccessError(c *gin.Context, err error) {
	var verr *access.ValidationError
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	case errors.Is(err, access.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", "Not found.", nil)
	case errors.As(err, &verr):
		Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
	default:
		telemetry.Error("http.internal", map[string]any{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err,
		})
		Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
	}
}
