package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/middleware"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/services"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) SubmitArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.SubmitArticle(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article submitted", article)
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created", article)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "invalid query parameters", h.Helper.EmptyJsonMap())
		return
	}

	articles, err := h.articleService.ListArticles(params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Articles loaded", articles)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article loaded", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated", article)
}

func (h *ArticleHandler) GetPendingArticles(c *gin.Context) {
	views, err := h.articleService.ListPendingArticles(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Pending articles loaded", views)
}

func (h *ArticleHandler) CountPendingArticles(c *gin.Context) {
	count, err := h.articleService.CountPending(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Pending articles counted", gin.H{"count": count})
}

func (h *ArticleHandler) GetAnalyzedArticles(c *gin.Context) {
	articles, err := h.articleService.ListAnalyzed(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Analyzed articles loaded", articles)
}

func (h *ArticleHandler) ModerateArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.ModerateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.ModerateArticle(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article moderated", article)
}

func (h *ArticleHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.UpdateStatus(id, req.Status, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article status updated", article)
}

func (h *ArticleHandler) RateArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.RateArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.articleService.RateArticle(id, req.Rating, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article rated", article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.articleService.DeleteArticle(id, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	if !deleted {
		h.Helper.SendNotFoundError(c, "Article not found", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Article deleted", h.Helper.EmptyJsonMap())
}
