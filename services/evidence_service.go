package services

import (
	"fmt"
	"log/slog"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type EvidenceService interface {
	CreateEvidence(req models.EvidenceRequest, identity *policy.Identity) (*models.Evidence, error)
	GetEvidence(id uint) (*models.Evidence, error)
	ListEvidence(filter models.EvidenceFilter) ([]models.Evidence, error)
	UpdateEvidence(id uint, req models.EvidenceRequest, identity *policy.Identity) (*models.Evidence, error)
	DeleteEvidence(id uint, identity *policy.Identity) error
}

type evidenceService struct {
	evidenceRepo repositories.EvidenceRepository
	articleRepo  repositories.ArticleRepository
	claimRepo    repositories.ClaimRepository
	logger       *slog.Logger
}

func NewEvidenceService(evidenceRepo repositories.EvidenceRepository, articleRepo repositories.ArticleRepository, claimRepo repositories.ClaimRepository, logger *slog.Logger) EvidenceService {
	return &evidenceService{
		evidenceRepo: evidenceRepo,
		articleRepo:  articleRepo,
		claimRepo:    claimRepo,
		logger:       logger,
	}
}

// CreateEvidence links an article to a claim. The caller is recorded as the
// analyst.
func (s *evidenceService) CreateEvidence(req models.EvidenceRequest, identity *policy.Identity) (*models.Evidence, error) {
	if err := authorize(identity, policy.Analyst); err != nil {
		return nil, err
	}
	if err := s.ensureReferences(req); err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		ArticleID:       req.ArticleID,
		ClaimID:         req.ClaimID,
		Result:          models.EvidenceResult(req.Result),
		ResearchType:    req.ResearchType,
		ParticipantType: req.ParticipantType,
		Notes:           helper.SanitizeText(req.Notes),
		AnalystID:       identity.UserID,
	}
	if err := s.evidenceRepo.Create(evidence); err != nil {
		return nil, fmt.Errorf("create evidence: %w", err)
	}

	s.logger.Info("evidence recorded",
		"evidence_id", evidence.ID,
		"article_id", evidence.ArticleID,
		"claim_id", evidence.ClaimID,
	)
	return s.GetEvidence(evidence.ID)
}

func (s *evidenceService) GetEvidence(id uint) (*models.Evidence, error) {
	evidence, err := s.evidenceRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "evidence %d not found", id)
	}
	return evidence, nil
}

func (s *evidenceService) ListEvidence(filter models.EvidenceFilter) ([]models.Evidence, error) {
	if filter.StartYear > 0 && filter.EndYear > 0 && filter.StartYear > filter.EndYear {
		return nil, models.Invalid("start_year", "start year must not be after end year")
	}
	return s.evidenceRepo.GetList(filter)
}

func (s *evidenceService) UpdateEvidence(id uint, req models.EvidenceRequest, identity *policy.Identity) (*models.Evidence, error) {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return nil, err
	}

	evidence, err := s.GetEvidence(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(req); err != nil {
		return nil, err
	}

	evidence.ArticleID = req.ArticleID
	evidence.ClaimID = req.ClaimID
	evidence.Article = nil
	evidence.Claim = nil
	evidence.Result = models.EvidenceResult(req.Result)
	evidence.ResearchType = req.ResearchType
	evidence.ParticipantType = req.ParticipantType
	evidence.Notes = helper.SanitizeText(req.Notes)

	if err := s.evidenceRepo.Update(evidence); err != nil {
		return nil, fmt.Errorf("update evidence %d: %w", id, err)
	}
	return s.GetEvidence(id)
}

func (s *evidenceService) DeleteEvidence(id uint, identity *policy.Identity) error {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return err
	}

	deleted, err := s.evidenceRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete evidence %d: %w", id, err)
	}
	if !deleted {
		return models.NotFound("evidence %d not found", id)
	}
	return nil
}

func (s *evidenceService) ensureReferences(req models.EvidenceRequest) error {
	exists, err := s.articleRepo.Exists(req.ArticleID)
	if err != nil {
		return fmt.Errorf("look up article %d: %w", req.ArticleID, err)
	}
	if !exists {
		return models.NotFound("article %d not found", req.ArticleID)
	}
	if _, err := s.claimRepo.GetByID(req.ClaimID); err != nil {
		return notFound(err, "claim %d not found", req.ClaimID)
	}
	return nil
}
