package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/middleware"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/services"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
	Helper          *helper.HTTPHelper
}

func NewAnalysisHandler(analysisService services.AnalysisService, h *helper.HTTPHelper) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, Helper: h}
}

func (h *AnalysisHandler) GetArticlesForAnalysis(c *gin.Context) {
	articles, err := h.analysisService.ListForAnalyst(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Articles loaded", articles)
}

func (h *AnalysisHandler) AnalyzeArticle(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.AnalyzeArticleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	article, err := h.analysisService.AnalyzeArticle(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article analyzed", article)
}

func (h *AnalysisHandler) GetArticleAnalysis(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	analysis, err := h.analysisService.GetAnalysis(id, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Analysis loaded", analysis)
}

func (h *AnalysisHandler) GetRejectedArticles(c *gin.Context) {
	articles, err := h.analysisService.ListRejected(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Rejected articles loaded", articles)
}

func (h *AnalysisHandler) GetStats(c *gin.Context) {
	stats, err := h.analysisService.Stats(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Stats loaded", stats)
}
