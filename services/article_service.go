package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type ArticleService interface {
	SubmitArticle(req models.CreateArticleRequest, identity *policy.Identity) (*models.Article, error)
	CreateArticle(req models.CreateArticleRequest, identity *policy.Identity) (*models.Article, error)
	GetArticle(id uint) (*models.Article, error)
	ListArticles(params models.ArticleListParams) ([]models.Article, error)
	UpdateArticle(id uint, req models.UpdateArticleRequest, identity *policy.Identity) (*models.Article, error)
	ModerateArticle(id uint, req models.ModerateArticleRequest, identity *policy.Identity) (*models.Article, error)
	UpdateStatus(id uint, status models.ArticleStatus, identity *policy.Identity) (*models.Article, error)
	DeleteArticle(id uint, identity *policy.Identity) (bool, error)
	ListPendingArticles(identity *policy.Identity) ([]models.PendingArticleView, error)
	CountPending(identity *policy.Identity) (int64, error)
	ListAnalyzed(identity *policy.Identity) ([]models.Article, error)
	RateArticle(id uint, score int, identity *policy.Identity) (*models.Article, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewArticleService(articleRepo repositories.ArticleRepository, logger *slog.Logger) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitArticle queues a new article for moderation. Whatever status the
// payload carries, submissions always start PENDING.
func (s *articleService) SubmitArticle(req models.CreateArticleRequest, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity); err != nil {
		return nil, err
	}

	article := newArticle(req)
	article.Status = models.StatusPending
	article.SubmittedBy = &identity.UserID

	if err := s.articleRepo.Create(article); err != nil {
		return nil, fmt.Errorf("submit article: %w", err)
	}

	s.logger.Info("article submitted", "article_id", article.ID, "user_id", identity.UserID)
	return article, nil
}

// CreateArticle is the curator path; the status may be chosen up front.
func (s *articleService) CreateArticle(req models.CreateArticleRequest, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity, policy.Moderator, policy.Admin); err != nil {
		return nil, err
	}

	article := newArticle(req)
	article.Status = models.StatusPending
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, models.Invalid("status", "unknown article status")
		}
		article.Status = req.Status
	}
	article.SubmittedBy = &identity.UserID

	if err := s.articleRepo.Create(article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

func newArticle(req models.CreateArticleRequest) *models.Article {
	return &models.Article{
		Title:           req.Title,
		Authors:         req.Authors,
		Journal:         req.Journal,
		Year:            req.Year,
		Volume:          req.Volume,
		Number:          req.Number,
		Pages:           req.Pages,
		DOI:             req.DOI,
		ResearchType:    req.ResearchType,
		ParticipantType: req.ParticipantType,
		Findings:        helper.SanitizeText(req.Findings),
	}
}

func (s *articleService) GetArticle(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "article %d not found", id)
	}
	return article, nil
}

func (s *articleService) ListArticles(params models.ArticleListParams) ([]models.Article, error) {
	return s.articleRepo.GetList(params)
}

// UpdateArticle edits bibliographic metadata only. Status, moderation and
// analysis fields are left alone.
func (s *articleService) UpdateArticle(id uint, req models.UpdateArticleRequest, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity, policy.Moderator, policy.Admin); err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:      id,
		Title:   req.Title,
		Authors: req.Authors,
		Journal: req.Journal,
		Year:    req.Year,
		Volume:  req.Volume,
		Number:  req.Number,
		Pages:   req.Pages,
		DOI:     req.DOI,
	}

	updated, err := s.articleRepo.UpdateMetadata(article)
	if err != nil {
		return nil, fmt.Errorf("update article %d: %w", id, err)
	}
	if !updated {
		return nil, models.NotFound("article %d not found", id)
	}
	return s.GetArticle(id)
}

// ModerateArticle records a moderator decision. Only PENDING articles can be
// moderated; the status check and the write are one conditional update.
func (s *articleService) ModerateArticle(id uint, req models.ModerateArticleRequest, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity, policy.Moderator); err != nil {
		return nil, err
	}

	now := s.now()
	values := map[string]interface{}{
		"is_peer_reviewed":     req.IsPeerReviewed,
		"is_relevant_to_se":    req.IsRelevantToSE,
		"is_duplicate_checked": req.IsDuplicateChecked,
		"moderated_by":         identity.UserID,
		"moderated_at":         now,
	}

	switch req.Status {
	case models.DecisionApproved:
		values["status"] = models.StatusReadyForAnalysis
	case models.DecisionRejected:
		values["status"] = models.StatusRejected
		if reason := helper.SanitizeText(req.RejectionReason); reason != "" {
			values["rejection_reason"] = reason
		}
	default:
		return nil, models.Invalid("status", "decision must be APPROVED or REJECTED")
	}

	applied, err := s.articleRepo.Transition(id, models.StatusPending, values)
	if err != nil {
		return nil, fmt.Errorf("moderate article %d: %w", id, err)
	}
	if !applied {
		if err := s.ensureExists(id); err != nil {
			return nil, err
		}
		return nil, models.Forbidden("article has already been moderated")
	}

	s.logger.Info("article moderated",
		"article_id", id,
		"moderator_id", identity.UserID,
		"decision", req.Status,
	)
	return s.GetArticle(id)
}

// UpdateStatus is the admin override. It skips every moderation side effect.
func (s *articleService) UpdateStatus(id uint, status models.ArticleStatus, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity, policy.Admin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, models.Invalid("status", "unknown article status")
	}

	updated, err := s.articleRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("update status of article %d: %w", id, err)
	}
	if !updated {
		if err := s.ensureExists(id); err != nil {
			return nil, err
		}
	}

	s.logger.Warn("article status overridden", "article_id", id, "status", status, "admin_id", identity.UserID)
	return s.GetArticle(id)
}

// DeleteArticle hard-deletes the article and reports whether a row went away.
func (s *articleService) DeleteArticle(id uint, identity *policy.Identity) (bool, error) {
	if err := authorize(identity, policy.Admin); err != nil {
		return false, err
	}

	deleted, err := s.articleRepo.Delete(id)
	if err != nil {
		return false, fmt.Errorf("delete article %d: %w", id, err)
	}
	if deleted {
		s.logger.Info("article deleted", "article_id", id, "admin_id", identity.UserID)
	}
	return deleted, nil
}

// ListPendingArticles returns the moderation queue, oldest first, each entry
// annotated with duplicate and rejection advisories. The corpus slice the
// advisories are computed from is read in one query.
func (s *articleService) ListPendingArticles(identity *policy.Identity) ([]models.PendingArticleView, error) {
	if err := authorize(identity, policy.Moderator); err != nil {
		return nil, err
	}

	pending, err := s.articleRepo.GetByStatus(models.StatusPending, false)
	if err != nil {
		return nil, fmt.Errorf("list pending articles: %w", err)
	}

	dois := make([]string, 0, len(pending))
	titleKeys := make([]string, 0, len(pending))
	for _, article := range pending {
		if article.DOI != "" {
			dois = append(dois, article.DOI)
		}
		titleKeys = append(titleKeys, article.TitleKey)
	}

	corpus, err := s.articleRepo.GetDuplicateCandidates(dois, titleKeys)
	if err != nil {
		return nil, fmt.Errorf("load duplicate candidates: %w", err)
	}

	return AnnotatePending(pending, corpus), nil
}

func (s *articleService) CountPending(identity *policy.Identity) (int64, error) {
	if err := authorize(identity, policy.Moderator); err != nil {
		return 0, err
	}
	return s.articleRepo.CountByStatus(models.StatusPending)
}

func (s *articleService) ListAnalyzed(identity *policy.Identity) ([]models.Article, error) {
	if err := authorize(identity, policy.Admin, policy.Moderator, policy.Analyst); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByStatus(models.StatusAnalyzed, true)
}

// RateArticle folds score into the article's running mean.
func (s *articleService) RateArticle(id uint, score int, identity *policy.Identity) (*models.Article, error) {
	if err := authorize(identity); err != nil {
		return nil, err
	}

	applied, err := s.articleRepo.ApplyRating(id, score, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("rate article %d: %w", id, err)
	}
	if !applied {
		return nil, models.NotFound("article %d not found", id)
	}
	return s.GetArticle(id)
}

func (s *articleService) ensureExists(id uint) error {
	exists, err := s.articleRepo.Exists(id)
	if err != nil {
		return fmt.Errorf("look up article %d: %w", id, err)
	}
	if !exists {
		return models.NotFound("article %d not found", id)
	}
	return nil
}
