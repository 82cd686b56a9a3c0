package opportunities

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
	rg.GET("/opportunities", h.list)
	rg.POST("/opportunities", h.create)
	rg.GET("/opportunities/search", h.search)
	rg.GET("/opportunities/:opportunityId", h.get)
	rg.PATCH("/opportunities/:opportunityId", h.update)
	rg.DELETE("/opportunities/:opportunityId", h.delete)

	rg.GET("/users/:userId/posted", h.posted)
	rg.GET("/users/:userId/saved", h.listSaved)
	rg.POST("/users/:userId/saved", h.save)
	rg.GET("/users/:userId/saved/:opportunityId", h.getSaved)
	rg.DELETE("/users/:userId/saved/:opportunityId", h.deleteSaved)
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := params.Page(c)
	out, err := h.Svc.List(c.Request.Context(), Query{}, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) search(c *gin.Context) {
	limit, offset := params.Page(c)
	q := Query{Position: c.Query("position"), Location: c.Query("location")}
	out, err := h.Svc.List(c.Request.Context(), q, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if !params.Bind(c, &in) {
		return
	}
	o, err := h.Svc.Create(c.Request.Context(), middleware.ActorFromContext(c), in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, o)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	o, err := h.Svc.Get(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, o)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	var patch Patch
	if !params.Bind(c, &patch) {
		return
	}
	o, err := h.Svc.Update(c.Request.Context(), middleware.ActorFromContext(c), id, patch)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, o)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) posted(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.Posted(c.Request.Context(), middleware.ActorFromContext(c), userID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) listSaved(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListSaved(c.Request.Context(), middleware.ActorFromContext(c), userID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) save(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	var in SavedInput
	if !params.Bind(c, &in) {
		return
	}
	saved, err := h.Svc.Save(c.Request.Context(), middleware.ActorFromContext(c), userID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, saved)
}

func (h *Handler) getSaved(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	saved, err := h.Svc.GetSaved(c.Request.Context(), middleware.ActorFromContext(c), userID, opportunityID)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, saved)
}

func (h *Handler) deleteSaved(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	opportunityID, ok := params.ID(c, "opportunityId")
	if !ok {
		return
	}
	if err := h.Svc.DeleteSaved(c.Request.Context(), middleware.ActorFromContext(c), userID, opportunityID); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}
