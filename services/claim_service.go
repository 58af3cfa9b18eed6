package services

import (
	"fmt"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type ClaimService interface {
	CreateClaim(req models.ClaimRequest, identity *policy.Identity) (*models.Claim, error)
	GetClaim(id uint) (*models.Claim, error)
	ListClaims(practiceID uint) ([]models.Claim, error)
	UpdateClaim(id uint, req models.ClaimRequest, identity *policy.Identity) (*models.Claim, error)
	DeleteClaim(id uint, identity *policy.Identity) error
}

type claimService struct {
	claimRepo    repositories.ClaimRepository
	practiceRepo repositories.PracticeRepository
}

func NewClaimService(claimRepo repositories.ClaimRepository, practiceRepo repositories.PracticeRepository) ClaimService {
	return &claimService{
		claimRepo:    claimRepo,
		practiceRepo: practiceRepo,
	}
}

func (s *claimService) CreateClaim(req models.ClaimRequest, identity *policy.Identity) (*models.Claim, error) {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return nil, err
	}
	if err := s.ensurePractice(req.PracticeID); err != nil {
		return nil, err
	}

	claim := &models.Claim{
		Description: helper.SanitizeText(req.Description),
		PracticeID:  req.PracticeID,
	}
	if claim.Description == "" {
		return nil, models.Invalid("description", "description is required")
	}
	if err := s.claimRepo.Create(claim); err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}
	return claim, nil
}

func (s *claimService) GetClaim(id uint) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "claim %d not found", id)
	}
	return claim, nil
}

// ListClaims lists every claim, or only those of practiceID when non-zero.
func (s *claimService) ListClaims(practiceID uint) ([]models.Claim, error) {
	if practiceID > 0 {
		return s.claimRepo.GetByPractice(practiceID)
	}
	return s.claimRepo.GetAll()
}

func (s *claimService) UpdateClaim(id uint, req models.ClaimRequest, identity *policy.Identity) (*models.Claim, error) {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return nil, err
	}

	claim, err := s.GetClaim(id)
	if err != nil {
		return nil, err
	}
	if req.PracticeID != claim.PracticeID {
		if err := s.ensurePractice(req.PracticeID); err != nil {
			return nil, err
		}
	}

	claim.Description = helper.SanitizeText(req.Description)
	claim.PracticeID = req.PracticeID
	claim.Practice = nil
	if err := s.claimRepo.Update(claim); err != nil {
		return nil, fmt.Errorf("update claim %d: %w", id, err)
	}
	return claim, nil
}

func (s *claimService) DeleteClaim(id uint, identity *policy.Identity) error {
	if err := authorize(identity, policy.Admin); err != nil {
		return err
	}

	deleted, err := s.claimRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete claim %d: %w", id, err)
	}
	if !deleted {
		return models.NotFound("claim %d not found", id)
	}
	return nil
}

func (s *claimService) ensurePractice(id uint) error {
	if _, err := s.practiceRepo.GetByID(id); err != nil {
		return notFound(err, "practice %d not found", id)
	}
	return nil
}
