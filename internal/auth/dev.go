package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/users"
)

// UsernameIssuer finds or creates a user by username.
type UsernameIssuer interface {
	EnsureUsername(ctx context.Context, username string) (users.User, error)
}

// DevTokenHandler issues tokens without an identity provider. Only mounted in dev.
type DevTokenHandler struct {
	users UsernameIssuer
}

func NewDevTokenHandler(issuer UsernameIssuer) *DevTokenHandler {
	return &DevTokenHandler{users: issuer}
}

func (h *DevTokenHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/token", h.issue)
}

type devTokenRequest struct {
	Username string `json:"username" binding:"required,max=150"`
}

func (h *DevTokenHandler) issue(c *gin.Context) {
	var req devTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username is required", nil)
		return
	}
	user, err := h.users.EnsureUsername(c.Request.Context(), req.Username)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	token, err := sharedauth.SignUser(user.ID, user.Username, user.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	respond.Created(c, gin.H{
		"token": token,
		"user":  user,
	})
}
