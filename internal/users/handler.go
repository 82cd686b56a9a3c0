package users

import (
	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/params"
	"jobboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/currentuser", h.current)
	rg.PATCH("/users/:userId", h.update)
}

func (h *Handler) current(c *gin.Context) {
	user, err := h.Svc.Current(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, user)
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	var in UpdateInput
	if !params.Bind(c, &in) {
		return
	}
	user, err := h.Svc.Update(c.Request.Context(), middleware.ActorFromContext(c), userID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, user)
}
