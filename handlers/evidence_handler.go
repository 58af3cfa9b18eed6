package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/middleware"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/services"
)

type EvidenceHandler struct {
	evidenceService   services.EvidenceService
	savedQueryService services.SavedQueryService
	Helper            *helper.HTTPHelper
}

func NewEvidenceHandler(evidenceService services.EvidenceService, savedQueryService services.SavedQueryService, h *helper.HTTPHelper) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceService:   evidenceService,
		savedQueryService: savedQueryService,
		Helper:            h,
	}
}

func (h *EvidenceHandler) GetEvidenceList(c *gin.Context) {
	var filter models.EvidenceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Helper.SendBadRequest(c, "invalid query parameters", h.Helper.EmptyJsonMap())
		return
	}

	evidence, err := h.evidenceService.ListEvidence(filter)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Evidence loaded", evidence)
}

func (h *EvidenceHandler) GetEvidence(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	evidence, err := h.evidenceService.GetEvidence(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Evidence loaded", evidence)
}

func (h *EvidenceHandler) CreateEvidence(c *gin.Context) {
	var req models.EvidenceRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	evidence, err := h.evidenceService.CreateEvidence(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Evidence created", evidence)
}

func (h *EvidenceHandler) UpdateEvidence(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	var req models.EvidenceRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	evidence, err := h.evidenceService.UpdateEvidence(id, req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Evidence updated", evidence)
}

func (h *EvidenceHandler) DeleteEvidence(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.evidenceService.DeleteEvidence(id, middleware.CurrentIdentity(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Evidence deleted", h.Helper.EmptyJsonMap())
}

func (h *EvidenceHandler) SaveQuery(c *gin.Context) {
	var req models.SavedQueryRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	query, err := h.savedQueryService.Save(req, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Query saved", query)
}

func (h *EvidenceHandler) GetSavedQueries(c *gin.Context) {
	queries, err := h.savedQueryService.List(middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Saved queries loaded", queries)
}

func (h *EvidenceHandler) RunSavedQuery(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	evidence, err := h.savedQueryService.Run(id, middleware.CurrentIdentity(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Saved query results loaded", evidence)
}

func (h *EvidenceHandler) DeleteSavedQuery(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.savedQueryService.Delete(id, middleware.CurrentIdentity(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Saved query deleted", h.Helper.EmptyJsonMap())
}
