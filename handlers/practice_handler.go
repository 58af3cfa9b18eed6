package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/middleware"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/services"
)

type PracticeHandler struct {
	practiceService services.PracticeService
	claimService    services.ClaimService
	Helper          *helper.HTTPHelper
}

func NewPracticeHandler(practiceService services.PracticeService, claimService services.ClaimService, h *helper.HTTPHelper) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
		claimService:    claimService,
		Helper:          h,
	}
}

func (h *PracticeHandler) CreatePractice(c *gin.Context) {
	var req models.PracticeRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	practice, err := h.practiceService.CreatePractice(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Practice created", practice)
}

func (h *PracticeHandler) GetPractices(c *gin.Context) {
	practices, err := h.practiceService.ListPractices()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Practices loaded", practices)
}

func (h *PracticeHandler) GetPractice(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	practice, err := h.practiceService.GetPractice(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Practice loaded", practice)
}

func (h *PracticeHandler) GetPracticeSummary(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	summary, err := h.practiceService.Summary(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Practice summary loaded", summary)
}

func (h *PracticeHandler) UpdatePractice(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.PracticeRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	practice, err := h.practiceService.UpdatePractice(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Practice updated", practice)
}

func (h *PracticeHandler) DeletePractice(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.practiceService.DeletePractice(id, middleware.CurrentIdentity(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Practice deleted", h.Helper.EmptyJsonMap())
}

// claimQuery is the optional ?practice= filter on the claim listing.
type claimQuery struct {
	PracticeID uint `form:"practice"`
}

func (h *PracticeHandler) GetClaims(c *gin.Context) {
	var query claimQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Helper.SendBadRequest(c, "invalid query parameters", h.Helper.EmptyJsonMap())
		return
	}

	claims, err := h.claimService.ListClaims(query.PracticeID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Claims loaded", claims)
}

func (h *PracticeHandler) GetClaim(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	claim, err := h.claimService.GetClaim(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Claim loaded", claim)
}

func (h *PracticeHandler) CreateClaim(c *gin.Context) {
	var req models.ClaimRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	claim, err := h.claimService.CreateClaim(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Claim created", claim)
}

func (h *PracticeHandler) UpdateClaim(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.ClaimRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	claim, err := h.claimService.UpdateClaim(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Claim updated", claim)
}

func (h *PracticeHandler) DeleteClaim(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.claimService.DeleteClaim(id, middleware.CurrentIdentity(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Claim deleted", h.Helper.EmptyJsonMap())
}
