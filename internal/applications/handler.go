package applications

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
	rg.GET("/opportunities/:opportunityId/applications", h.listForOpportunity)
	rg.POST("/opportunities/:opportunityId/applications", h.apply)
	rg.GET("/applications/:applicationId", h.get)
	rg.DELETE("/applications/:applicationId", h.delete)

	rg.GET("/users/:userId/applied", h.applied)
	rg.GET("/users/:userId/applied/:opportunityId", h.getApplied)
	rg.DELETE("/users/:userId/applied/:opportunityId", h.deleteApplied)
}

func (h *Handler) listForOpportunity(c *gin.Context) {
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListForOpportunity(c.Request.Context(), middleware.ActorFromContext(c), opportunityID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) apply(c *gin.Context) {
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	var in Input
	if !params.Bind(c, &in) {
		return
	}
	app, err := h.Svc.Apply(c.Request.Context(), middleware.ActorFromContext(c), opportunityID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, app)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "applicationId")
	if !ok {
		return
	}
	app, err := h.Svc.Get(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "applicationId")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) applied(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.Applied(c.Request.Context(), middleware.ActorFromContext(c), userID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) getApplied(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	app, err := h.Svc.GetApplied(c.Request.Context(), middleware.ActorFromContext(c), userID, opportunityID)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) deleteApplied(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	if err := h.Svc.DeleteApplied(c.Request.Context(), middleware.ActorFromContext(c), userID, opportunityID); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}
