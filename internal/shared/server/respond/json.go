package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with status. API responses carry per-user data and are
// never cached.
func JSON(c *gin.Context, status int, payload any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// NoContent answers a successful delete.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
