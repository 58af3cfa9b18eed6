package services

import (
	"fmt"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type DashboardService interface {
	Stats(identity *policy.Identity) (*models.DashboardStats, error)
}

type dashboardService struct {
	articleRepo  repositories.ArticleRepository
	userRepo     repositories.UserRepository
	practiceRepo repositories.PracticeRepository
	evidenceRepo repositories.EvidenceRepository
}

func NewDashboardService(articleRepo repositories.ArticleRepository, userRepo repositories.UserRepository, practiceRepo repositories.PracticeRepository, evidenceRepo repositories.EvidenceRepository) DashboardService {
	return &dashboardService{
		articleRepo:  articleRepo,
		userRepo:     userRepo,
		practiceRepo: practiceRepo,
		evidenceRepo: evidenceRepo,
	}
}

func (s *dashboardService) Stats(identity *policy.Identity) (*models.DashboardStats, error) {
	if err := authorize(identity, policy.Admin); err != nil {
		return nil, err
	}

	byStatus, err := s.articleRepo.CountGroupedByStatus()
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	stats := &models.DashboardStats{ArticlesByStatus: byStatus}
	for _, count := range byStatus {
		stats.TotalArticles += count
	}

	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalPractices, err = s.practiceRepo.Count(); err != nil {
		return nil, fmt.Errorf("count practices: %w", err)
	}
	if stats.TotalEvidence, err = s.evidenceRepo.Count(); err != nil {
		return nil, fmt.Errorf("count evidence: %w", err)
	}
	return stats, nil
}
