package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type PracticeService interface {
	CreatePractice(req models.PracticeRequest, identity *policy.Identity) (*models.Practice, error)
	GetPractice(id uint) (*models.Practice, error)
	ListPractices() ([]models.Practice, error)
	UpdatePractice(id uint, req models.PracticeRequest, identity *policy.Identity) (*models.Practice, error)
	DeletePractice(id uint, identity *policy.Identity) error
	Summary(id uint) (*models.PracticeSummary, error)
}

type practiceService struct {
	practiceRepo repositories.PracticeRepository
	evidenceRepo repositories.EvidenceRepository
}

func NewPracticeService(practiceRepo repositories.PracticeRepository, evidenceRepo repositories.EvidenceRepository) PracticeService {
	return &practiceService{
		practiceRepo: practiceRepo,
		evidenceRepo: evidenceRepo,
	}
}

func (s *practiceService) CreatePractice(req models.PracticeRequest, identity *policy.Identity) (*models.Practice, error) {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(name, 0); err != nil {
		return nil, err
	}

	practice := &models.Practice{
		Name:        name,
		Description: helper.SanitizeText(req.Description),
	}
	if err := s.practiceRepo.Create(practice); err != nil {
		return nil, conflict(fmt.Errorf("create practice: %w", err), "practice %q already exists", name)
	}
	return practice, nil
}

func (s *practiceService) GetPractice(id uint) (*models.Practice, error) {
	practice, err := s.practiceRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "practice %d not found", id)
	}
	return practice, nil
}

func (s *practiceService) ListPractices() ([]models.Practice, error) {
	return s.practiceRepo.GetAll()
}

func (s *practiceService) UpdatePractice(id uint, req models.PracticeRequest, identity *policy.Identity) (*models.Practice, error) {
	if err := authorize(identity, policy.Admin, policy.Analyst); err != nil {
		return nil, err
	}

	practice, err := s.GetPractice(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(name, id); err != nil {
		return nil, err
	}

	practice.Name = name
	practice.Description = helper.SanitizeText(req.Description)
	if err := s.practiceRepo.Update(practice); err != nil {
		return nil, conflict(fmt.Errorf("update practice %d: %w", id, err), "practice %q already exists", name)
	}
	return practice, nil
}

func (s *practiceService) DeletePractice(id uint, identity *policy.Identity) error {
	if err := authorize(identity, policy.Admin); err != nil {
		return err
	}

	deleted, err := s.practiceRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete practice %d: %w", id, err)
	}
	if !deleted {
		return models.NotFound("practice %d not found", id)
	}
	return nil
}

// Summary tallies AGREE/DISAGREE/NEUTRAL evidence for every claim of the
// practice. Claims without evidence report zeroes.
func (s *practiceService) Summary(id uint) (*models.PracticeSummary, error) {
	practice, err := s.GetPractice(id)
	if err != nil {
		return nil, err
	}

	counts, err := s.evidenceRepo.CountResultsByClaim(id)
	if err != nil {
		return nil, fmt.Errorf("tally evidence for practice %d: %w", id, err)
	}

	summary := &models.PracticeSummary{
		Practice: *practice,
		Claims:   make([]models.ClaimSummary, 0, len(practice.Claims)),
	}
	summary.Practice.Claims = nil

	for _, claim := range practice.Claims {
		tally := counts[claim.ID]
		summary.Claims = append(summary.Claims, models.ClaimSummary{
			Claim:    claim,
			Agree:    tally[models.ResultAgree],
			Disagree: tally[models.ResultDisagree],
			Neutral:  tally[models.ResultNeutral],
		})
	}
	return summary, nil
}

func (s *practiceService) ensureNameFree(name string, selfID uint) error {
	existing, err := s.practiceRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("look up practice: %w", err)
	}
	if existing.ID != selfID {
		return models.Conflict("practice %q already exists", name)
	}
	return nil
}
