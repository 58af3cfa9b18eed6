package services

import (
	"fmt"
	"strings"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type SavedQueryService interface {
	Save(req models.SavedQueryRequest, identity *policy.Identity) (*models.SavedQuery, error)
	List(identity *policy.Identity) ([]models.SavedQuery, error)
	Run(id uint, identity *policy.Identity) ([]models.Evidence, error)
	Delete(id uint, identity *policy.Identity) error
}

type savedQueryService struct {
	queryRepo    repositories.SavedQueryRepository
	evidenceRepo repositories.EvidenceRepository
}

func NewSavedQueryService(queryRepo repositories.SavedQueryRepository, evidenceRepo repositories.EvidenceRepository) SavedQueryService {
	return &savedQueryService{
		queryRepo:    queryRepo,
		evidenceRepo: evidenceRepo,
	}
}

func (s *savedQueryService) Save(req models.SavedQueryRequest, identity *policy.Identity) (*models.SavedQuery, error) {
	if err := authorize(identity); err != nil {
		return nil, err
	}
	if req.StartYear != nil && req.EndYear != nil && *req.StartYear > *req.EndYear {
		return nil, models.Invalid("start_year", "start year must not be after end year")
	}

	query := &models.SavedQuery{
		Name:       strings.TrimSpace(req.Name),
		UserID:     identity.UserID,
		PracticeID: req.PracticeID,
		ClaimID:    req.ClaimID,
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
	}
	if err := s.queryRepo.Create(query); err != nil {
		return nil, fmt.Errorf("save query: %w", err)
	}
	return query, nil
}

func (s *savedQueryService) List(identity *policy.Identity) ([]models.SavedQuery, error) {
	if err := authorize(identity); err != nil {
		return nil, err
	}
	return s.queryRepo.GetByUser(identity.UserID)
}

// Run replays a saved query against the evidence listing. Queries owned by
// someone else are reported as not found.
func (s *savedQueryService) Run(id uint, identity *policy.Identity) ([]models.Evidence, error) {
	if err := authorize(identity); err != nil {
		return nil, err
	}

	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "saved query %d not found", id)
	}
	if query.UserID != identity.UserID {
		return nil, models.NotFound("saved query %d not found", id)
	}

	return s.evidenceRepo.GetList(filterFor(query))
}

func (s *savedQueryService) Delete(id uint, identity *policy.Identity) error {
	if err := authorize(identity); err != nil {
		return err
	}

	deleted, err := s.queryRepo.Delete(id, identity.UserID)
	if err != nil {
		return fmt.Errorf("delete saved query %d: %w", id, err)
	}
	if !deleted {
		return models.NotFound("saved query %d not found", id)
	}
	return nil
}

func filterFor(query *models.SavedQuery) models.EvidenceFilter {
	var filter models.EvidenceFilter
	if query.PracticeID != nil {
		filter.PracticeID = *query.PracticeID
	}
	if query.ClaimID != nil {
		filter.ClaimID = *query.ClaimID
	}
	if query.StartYear != nil {
		filter.StartYear = *query.StartYear
	}
	if query.EndYear != nil {
		filter.EndYear = *query.EndYear
	}
	return filter
}
