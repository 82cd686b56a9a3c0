package companies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/params"
	"jobboard-backend/internal/shared/server/respond"
)

const maxLogoSize = 2 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies", h.list)
	rg.POST("/companies", h.create)
	rg.GET("/companies/search", h.search)
	rg.GET("/companies/:companyId", h.get)
	rg.PATCH("/companies/:companyId", h.update)
	rg.DELETE("/companies/:companyId", h.delete)
	rg.POST("/companies/:companyId/image", h.uploadLogo)

	rg.GET("/companies/:companyId/reviews", h.listReviews)
	rg.POST("/companies/:companyId/reviews", h.createReview)
	rg.GET("/companies/:companyId/reviews/:reviewId", h.getReview)
	rg.PATCH("/companies/:companyId/reviews/:reviewId", h.updateReview)
	rg.DELETE("/companies/:companyId/reviews/:reviewId", h.deleteReview)

	rg.GET("/companies/:companyId/questions", h.listQuestions)
	rg.POST("/companies/:companyId/questions", h.createQuestion)
	rg.GET("/companies/:companyId/questions/:questionId", h.getQuestion)
	rg.PATCH("/companies/:companyId/questions/:questionId", h.updateQuestion)
	rg.DELETE("/companies/:companyId/questions/:questionId", h.deleteQuestion)

	rg.GET("/questions/:questionId/answers", h.listAnswers)
	rg.POST("/questions/:questionId/answers", h.createAnswer)
	rg.GET("/questions/:questionId/answers/:answerId", h.getAnswer)
	rg.PATCH("/questions/:questionId/answers/:answerId", h.updateAnswer)
	rg.DELETE("/questions/:questionId/answers/:answerId", h.deleteAnswer)
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := params.Page(c)
	out, err := h.Svc.List(c.Request.Context(), "", limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) search(c *gin.Context) {
	limit, offset := params.Page(c)
	out, err := h.Svc.List(c.Request.Context(), c.Query("name"), limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var in CompanyInput
	if !params.Bind(c, &in) {
		return
	}
	company, err := h.Svc.Create(c.Request.Context(), middleware.ActorFromContext(c), in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, company)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	company, err := h.Svc.Get(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, company)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	var patch CompanyPatch
	if !params.Bind(c, &patch) {
		return
	}
	company, err := h.Svc.Update(c.Request.Context(), middleware.ActorFromContext(c), id, patch)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, company)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) uploadLogo(c *gin.Context) {
	id, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLogoSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	company, err := h.Svc.UploadLogo(c.Request.Context(), middleware.ActorFromContext(c), id, fileHeader.Filename, file)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, company)
}

func (h *Handler) listReviews(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListReviews(c.Request.Context(), middleware.ActorFromContext(c), companyID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) createReview(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	var in ReviewInput
	if !params.Bind(c, &in) {
		return
	}
	review, err := h.Svc.CreateReview(c.Request.Context(), middleware.ActorFromContext(c), companyID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, review)
}

func (h *Handler) getReview(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	reviewID, ok := params.ID(c, "reviewId")
	if !ok {
		return
	}
	review, err := h.Svc.GetReview(c.Request.Context(), middleware.ActorFromContext(c), companyID, reviewID)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, review)
}

func (h *Handler) updateReview(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	reviewID, ok := params.ID(c, "reviewId")
	if !ok {
		return
	}
	var patch ReviewPatch
	if !params.Bind(c, &patch) {
		return
	}
	review, err := h.Svc.UpdateReview(c.Request.Context(), middleware.ActorFromContext(c), companyID, reviewID, patch)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, review)
}

func (h *Handler) deleteReview(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	reviewID, ok := params.ID(c, "reviewId")
	if !ok {
		return
	}
	if err := h.Svc.DeleteReview(c.Request.Context(), middleware.ActorFromContext(c), companyID, reviewID); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) listQuestions(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListQuestions(c.Request.Context(), middleware.ActorFromContext(c), companyID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) createQuestion(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	var in QuestionInput
	if !params.Bind(c, &in) {
		return
	}
	q, err := h.Svc.CreateQuestion(c.Request.Context(), middleware.ActorFromContext(c), companyID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, q)
}

func (h *Handler) getQuestion(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	q, err := h.Svc.GetQuestion(c.Request.Context(), middleware.ActorFromContext(c), companyID, questionID)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, q)
}

func (h *Handler) updateQuestion(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	var in QuestionInput
	if !params.Bind(c, &in) {
		return
	}
	q, err := h.Svc.UpdateQuestion(c.Request.Context(), middleware.ActorFromContext(c), companyID, questionID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, q)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	companyID, ok := params.ID(c, "companyId")
	if !ok {
		return
	}
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	if err := h.Svc.DeleteQuestion(c.Request.Context(), middleware.ActorFromContext(c), companyID, questionID); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) listAnswers(c *gin.Context) {
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	limit, offset := params.Page(c)
	out, err := h.Svc.ListAnswers(c.Request.Context(), middleware.ActorFromContext(c), questionID, limit, offset)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) createAnswer(c *gin.Context) {
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	var in AnswerInput
	if !params.Bind(c, &in) {
		return
	}
	a, err := h.Svc.CreateAnswer(c.Request.Context(), middleware.ActorFromContext(c), questionID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.Created(c, a)
}

func (h *Handler) getAnswer(c *gin.Context) {
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	answerID, ok := params.ID(c, "answerId")
	if !ok {
		return
	}
	a, err := h.Svc.GetAnswer(c.Request.Context(), middleware.ActorFromContext(c), questionID, answerID)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) updateAnswer(c *gin.Context) {
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	answerID, ok := params.ID(c, "answerId")
	if !ok {
		return
	}
	var in AnswerInput
	if !params.Bind(c, &in) {
		return
	}
	a, err := h.Svc.UpdateAnswer(c.Request.Context(), middleware.ActorFromContext(c), questionID, answerID, in)
	if err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) deleteAnswer(c *gin.Context) {
	questionID, ok := params.ID(c, "questionId")
	if !ok {
		return
	}
	answerID, ok := params.ID(c, "answerId")
	if !ok {
		return
	}
	if err := h.Svc.DeleteAnswer(c.Request.Context(), middleware.ActorFromContext(c), questionID, answerID); err != nil {
		respond.AccessError(c, err)
		return
	}
	respond.NoContent(c)
}
