package resumes

import (
	"net/http"

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
	rg.GET("/users/:userId/resumes", h.listResumes)
	rg.POST("/users/:userId/resumes", h.createResume)
	rg.GET("/resumes/:resumeId", h.getResume)
	rg.PATCH("/resumes/:resumeId", h.updateResume)
	rg.DELETE("/resumes/:resumeId", h.deleteResume)

	rg.GET("/resumes/:resumeId/workexperiences", h.listWork)
	rg.POST("/resumes/:resumeId/workexperiences", h.createWork)
	rg.GET("/resumes/:resumeId/workexperiences/:workId", h.getWork)
	rg.PATCH("/resumes/:resumeId/workexperiences/:workId", h.updateWork)
	rg.DELETE("/resumes/:resumeId/workexperiences/:workId", h.deleteWork)

	rg.GET("/resumes/:resumeId/academicexperiences", h.listAcademic)
	rg.POST("/resumes/:resumeId/academicexperiences", h.createAcademic)
	rg.GET("/resumes/:resumeId/academicexperiences/:academicId", h.getAcademic)
	rg.PATCH("/resumes/:resumeId/academicexperiences/:academicId", h.updateAcademic)
	rg.DELETE("/resumes/:resumeId/academicexperiences/:academicId", h.deleteAcademic)

	rg.GET("/resumes/:resumeId/languages", h.listLanguages)
	rg.POST("/resumes/:resumeId/languages", h.createLanguage)
	rg.GET("/resumes/:resumeId/languages/:languageId", h.getLanguage)
	rg.PATCH("/resumes/:resumeId/languages/:languageId", h.updateLanguage)
	rg.DELETE("/resumes/:resumeId/languages/:languageId", h.deleteLanguage)

	// Recruiter views reached through an application.
	rg.GET("/applications/:applicationId/resumes/:resumeId", h.fullForApplication)
	rg.GET("/applications/:applicationId/resumes/:resumeId/workexperiences", h.workForApplication)
	rg.GET("/applications/:applicationId/resumes/:resumeId/academicexperiences", h.academicForApplication)
	rg.GET("/applications/:applicationId/resumes/:resumeId/languages", h.languagesForApplication)
}

// ids reads the named path ids in order, stopping at the first bad one.
func ids(c *gin.Context, names ...string) ([]int64, bool) {
	out := make([]int64, 0, len(names))
	for _, n := range names {
		id, ok := params.ID(c, n)
		if !ok {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func reply(c *gin.Context, status int, v any, err error) {
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	if status == http.StatusNoContent {
		respond.NoContent(c)
		return
	}
	respond.JSON(c, status, v)
}

func (h *Handler) listResumes(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListResumes(c.Request.Context(), middleware.ActorFromContext(c), userID, limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) createResume(c *gin.Context) {
	userID, ok := params.ID(c, "userId")
	if !ok {
		return
	}
	var in ResumeInput
	if !params.Bind(c, &in) {
		return
	}
	out, err := h.Svc.CreateResume(c.Request.Context(), middleware.ActorFromContext(c), userID, in)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handler) getResume(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	out, err := h.Svc.GetResume(c.Request.Context(), middleware.ActorFromContext(c), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) updateResume(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	var patch ResumePatch
	if !params.Bind(c, &patch) {
		return
	}
	out, err := h.Svc.UpdateResume(c.Request.Context(), middleware.ActorFromContext(c), id, patch)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) deleteResume(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	err := h.Svc.DeleteResume(c.Request.Context(), middleware.ActorFromContext(c), id)
	reply(c, http.StatusNoContent, nil, err)
}

func (h *Handler) listWork(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListWork(c.Request.Context(), middleware.ActorFromContext(c), id, limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) createWork(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	var in WorkInput
	if !params.Bind(c, &in) {
		return
	}
	out, err := h.Svc.CreateWork(c.Request.Context(), middleware.ActorFromContext(c), id, in)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handler) getWork(c *gin.Context) {
	p, ok := ids(c, "resumeId", "workId")
	if !ok {
		return
	}
	out, err := h.Svc.GetWork(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) updateWork(c *gin.Context) {
	p, ok := ids(c, "resumeId", "workId")
	if !ok {
		return
	}
	var patch WorkPatch
	if !params.Bind(c, &patch) {
		return
	}
	out, err := h.Svc.UpdateWork(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], patch)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) deleteWork(c *gin.Context) {
	p, ok := ids(c, "resumeId", "workId")
	if !ok {
		return
	}
	err := h.Svc.DeleteWork(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusNoContent, nil, err)
}

func (h *Handler) listAcademic(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListAcademic(c.Request.Context(), middleware.ActorFromContext(c), id, limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) createAcademic(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	var in AcademicInput
	if !params.Bind(c, &in) {
		return
	}
	out, err := h.Svc.CreateAcademic(c.Request.Context(), middleware.ActorFromContext(c), id, in)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handler) getAcademic(c *gin.Context) {
	p, ok := ids(c, "resumeId", "academicId")
	if !ok {
		return
	}
	out, err := h.Svc.GetAcademic(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) updateAcademic(c *gin.Context) {
	p, ok := ids(c, "resumeId", "academicId")
	if !ok {
		return
	}
	var patch AcademicPatch
	if !params.Bind(c, &patch) {
		return
	}
	out, err := h.Svc.UpdateAcademic(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], patch)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) deleteAcademic(c *gin.Context) {
	p, ok := ids(c, "resumeId", "academicId")
	if !ok {
		return
	}
	err := h.Svc.DeleteAcademic(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusNoContent, nil, err)
}

func (h *Handler) listLanguages(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListLanguages(c.Request.Context(), middleware.ActorFromContext(c), id, limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) createLanguage(c *gin.Context) {
	id, ok := params.ID(c, "resumeId")
	if !ok {
		return
	}
	var in LanguageInput
	if !params.Bind(c, &in) {
		return
	}
	out, err := h.Svc.CreateLanguage(c.Request.Context(), middleware.ActorFromContext(c), id, in)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handler) getLanguage(c *gin.Context) {
	p, ok := ids(c, "resumeId", "languageId")
	if !ok {
		return
	}
	out, err := h.Svc.GetLanguage(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) updateLanguage(c *gin.Context) {
	p, ok := ids(c, "resumeId", "languageId")
	if !ok {
		return
	}
	var patch LanguagePatch
	if !params.Bind(c, &patch) {
		return
	}
	out, err := h.Svc.UpdateLanguage(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], patch)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) deleteLanguage(c *gin.Context) {
	p, ok := ids(c, "resumeId", "languageId")
	if !ok {
		return
	}
	err := h.Svc.DeleteLanguage(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusNoContent, nil, err)
}

func (h *Handler) fullForApplication(c *gin.Context) {
	p, ok := ids(c, "applicationId", "resumeId")
	if !ok {
		return
	}
	out, err := h.Svc.FullForApplication(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1])
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) workForApplication(c *gin.Context) {
	p, ok := ids(c, "applicationId", "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.WorkForApplication(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) academicForApplication(c *gin.Context) {
	p, ok := ids(c, "applicationId", "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.AcademicForApplication(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], limit, offset)
	reply(c, http.StatusOK, out, err)
}

func (h *Handler) languagesForApplication(c *gin.Context) {
	p, ok := ids(c, "applicationId", "resumeId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.LanguagesForApplication(c.Request.Context(), middleware.ActorFromContext(c), p[0], p[1], limit, offset)
	reply(c, http.StatusOK, out, err)
}
