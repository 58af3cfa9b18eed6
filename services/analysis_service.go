package services

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

const recentAnalysisLimit = 5

type AnalysisService interface {
	ListForAnalyst(identity *policy.Identity) ([]models.Article, error)
	AnalyzeArticle(id uint, req models.AnalyzeArticleRequest, identity *policy.Identity) (*models.Article, error)
	GetAnalysis(id uint, identity *policy.Identity) (*models.AnalysisResult, error)
	ListRejected(identity *policy.Identity) ([]models.Article, error)
	Stats(identity *policy.Identity) (*models.AnalystStats, error)
}

type analysisService struct {
	articleRepo repositories.ArticleRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewAnalysisService(articleRepo repositories.ArticleRepository, logger *slog.Logger) AnalysisService {
	return &analysisService{
		articleRepo: articleRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// ListForAnalyst returns articles waiting for analysis that the caller has
// not analysed before, newest first.
func (s *analysisService) ListForAnalyst(identity *policy.Identity) ([]models.Article, error) {
	if err := authorize(identity, policy.Analyst); err != nil {
		return nil, err
	}
	return s.articleRepo.GetReadyForAnalysis(identity.UserID)
}

// AnalyzeArticle stores the analysis and moves the article to ANALYZED. An
// article in any other state than READY_FOR_ANALYSIS is left untouched.
func (s *analysisService) AnalyzeArticle(id uint, req models.AnalyzeArticleRequest, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity, policy.Analyst); err != nil {
		return nil, err
	}

	result := datatypes.NewJSONType(models.AnalysisResult{
		ResearchType:    req.ResearchType,
		ParticipantType: req.ParticipantType,
		Methodology:     helper.SanitizeText(req.Methodology),
		Findings:        helper.SanitizeText(req.Findings),
		Limitations:     helper.SanitizeText(req.Limitations),
		Recommendations: helper.SanitizeText(req.Recommendations),
		Notes:           helper.SanitizeText(req.Notes),
	})

	applied, err := s.articleRepo.Transition(id, models.StatusReadyForAnalysis, map[string]interface{}{
		"status":          models.StatusAnalyzed,
		"analyzed_by":     identity.UserID,
		"analyzed_at":     s.now(),
		"analysis_result": result,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze article %d: %w", id, err)
	}
	if !applied {
		exists, err := s.articleRepo.Exists(id)
		if err != nil {
			return nil, fmt.Errorf("look up article %d: %w", id, err)
		}
		if !exists {
			return nil, models.NotFound("article %d not found", id)
		}
		return nil, models.Forbidden("article is not ready for analysis")
	}

	s.logger.Info("article analyzed", "article_id", id, "analyst_id", identity.UserID)

	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "article %d not found", id)
	}
	return article, nil
}

func (s *analysisService) GetAnalysis(id uint, identity *policy.Identity) (*models.AnalysisResult, error) {
	if err := authorize(identity, policy.Admin, policy.Moderator, policy.Analyst); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "article %d not found", id)
	}

	analysis := article.Analysis()
	if article.Status != models.StatusAnalyzed || analysis == nil {
		return nil, models.NotFound("article has not been analyzed yet")
	}
	return analysis, nil
}

func (s *analysisService) ListRejected(identity *policy.Identity) ([]models.Article, error) {
	if err := authorize(identity, policy.Moderator, policy.Admin); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByStatus(models.StatusRejected, true)
}

// Stats summarises the caller's own analysis history.
func (s *analysisService) Stats(identity *policy.Identity) (*models.AnalystStats, error) {
	if err := authorize(identity, policy.Analyst); err != nil {
		return nil, err
	}

	total, err := s.articleRepo.CountAnalyzedBy(identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	recent, err := s.articleRepo.GetRecentAnalyzedBy(identity.UserID, recentAnalysisLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent analyses: %w", err)
	}

	stats := &models.AnalystStats{
		TotalAnalyzed:  total,
		RecentAnalysis: make([]models.RecentAnalysis, 0, len(recent)),
	}
	for _, article := range recent {
		stats.RecentAnalysis = append(stats.RecentAnalysis, models.RecentAnalysis{
			ID:         article.ID,
			Title:      article.Title,
			AnalyzedAt: article.AnalyzedAt,
		})
	}
	return stats, nil
}
