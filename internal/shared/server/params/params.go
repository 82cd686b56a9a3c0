// Package params parses path ids and paging parameters for handlers.
package params

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// ID parses a positive integer path parameter. A malformed id answers 404,
// the same as an id that does not exist.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusNotFound, "not_found", "Not found.", nil)
		return 0, false
	}
	return id, true
}

// Page reads limit and offset from the query string, clamped to sane bounds.
func Page(c *gin.Context) (limit, offset int) {
	limit = DefaultLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Window applies limit and offset to an in-memory slice.
func Window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// Bind decodes a write request body. Anonymous callers get 401 before the body
// is looked at; a body that fails validation gets 400.
func Bind(c *gin.Context, dst any) bool {
	if middleware.UserIDFromContext(c) == 0 {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return false
	}
	return true
}
