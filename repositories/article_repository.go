package repositories

import (
	"strings"

	"github.com/cloudvorkala/SPEED/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetList(params models.ArticleListParams) ([]models.Article, error)
	GetByStatus(status models.ArticleStatus, newestFirst bool) ([]models.Article, error)
	CountByStatus(status models.ArticleStatus) (int64, error)
	CountGroupedByStatus() (map[models.ArticleStatus]int64, error)
	GetDuplicateCandidates(dois, titleKeys []string) ([]models.Article, error)
	GetReadyForAnalysis(excludeAnalystID uint) ([]models.Article, error)
	CountAnalyzedBy(analystID uint) (int64, error)
	GetRecentAnalyzedBy(analystID uint, limit int) ([]models.Article, error)
	Exists(id uint) (bool, error)
	UpdateMetadata(article *models.Article) (bool, error)
	UpdateStatus(id uint, status models.ArticleStatus) (bool, error)
	Transition(id uint, from models.ArticleStatus, values map[string]interface{}) (bool, error)
	ApplyRating(id uint, score int, userID uint) (bool, error)
	Delete(id uint) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// likeEscape is the LIKE escape character; '!' behaves the same on
// postgres, mysql and sqlite, unlike backslash.
const likeEscape = "!"

// containsPattern builds a lower-cased "%term%" pattern with LIKE
// metacharacters in term escaped.
func containsPattern(term string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(models.SearchIndex(term)) + "%"
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetList(params models.ArticleListParams) ([]models.Article, error) {
	var articles []models.Article

	query := r.db.Model(&models.Article{})

	if params.Author != "" {
		query = query.Where("authors_index LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(params.Author))
	}

	if params.Title != "" {
		query = query.Where("title_index LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(params.Title))
	}

	if params.Journal != "" {
		query = query.Where("journal_index LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(params.Journal))
	}

	if params.Year != 0 {
		query = query.Where("year = ?", params.Year)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	err := query.Order("created_at desc").Order("id desc").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) GetByStatus(status models.ArticleStatus, newestFirst bool) ([]models.Article, error) {
	var articles []models.Article
	order := "created_at asc, id asc"
	if newestFirst {
		order = "created_at desc, id desc"
	}
	err := r.db.Where("status = ?", status).Order(order).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) CountByStatus(status models.ArticleStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *articleRepository) CountGroupedByStatus() (map[models.ArticleStatus]int64, error) {
	var results []struct {
		Status models.ArticleStatus
		Count  int64
	}

	err := r.db.Model(&models.Article{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ArticleStatus]int64)
	for _, result := range results {
		counts[result.Status] = result.Count
	}
	return counts, nil
}

// GetDuplicateCandidates returns every article sharing a DOI or a title key
// with the given sets, oldest first.
func (r *articleRepository) GetDuplicateCandidates(dois, titleKeys []string) ([]models.Article, error) {
	var articles []models.Article
	if len(dois) == 0 && len(titleKeys) == 0 {
		return articles, nil
	}

	query := r.db.Model(&models.Article{})
	switch {
	case len(dois) > 0 && len(titleKeys) > 0:
		query = query.Where("doi IN ? OR title_key IN ?", dois, titleKeys)
	case len(dois) > 0:
		query = query.Where("doi IN ?", dois)
	default:
		query = query.Where("title_key IN ?", titleKeys)
	}

	err := query.Order("created_at asc").Order("id asc").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) GetReadyForAnalysis(excludeAnalystID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Where("status = ?", models.StatusReadyForAnalysis).
		Where("analyzed_by IS NULL OR analyzed_by <> ?", excludeAnalystID).
		Order("created_at desc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) CountAnalyzedBy(analystID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("analyzed_by = ?", analystID).Count(&count).Error
	return count, err
}

func (r *articleRepository) GetRecentAnalyzedBy(analystID uint, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Select("id", "title", "analyzed_at").
		Where("analyzed_by = ?", analystID).
		Order("analyzed_at desc").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateMetadata writes only the bibliographic columns of article. Status,
// moderation, analysis and rating columns are not part of the statement, so
// concurrent transitions and votes survive it.
func (r *articleRepository) UpdateMetadata(article *models.Article) (bool, error) {
	result := r.db.Model(&models.Article{}).
		Where("id = ?", article.ID).
		Updates(article.MetadataColumns())
	return result.RowsAffected > 0, result.Error
}

func (r *articleRepository) UpdateStatus(id uint, status models.ArticleStatus) (bool, error) {
	result := r.db.Model(&models.Article{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected > 0, result.Error
}

// Transition applies values only while the article is still in state from.
// It reports false when no row matched, leaving the article untouched.
func (r *articleRepository) Transition(id uint, from models.ArticleStatus, values map[string]interface{}) (bool, error) {
	result := r.db.Model(&models.Article{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	return result.RowsAffected > 0, result.Error
}

// ApplyRating folds score into the running mean in a single statement and
// records the vote. Both happen in one transaction.
func (r *articleRepository) ApplyRating(id uint, score int, userID uint) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Article{}).
			Where("id = ?", id).
			UpdateColumns(map[string]interface{}{
				"average_rating": gorm.Expr("(average_rating * rating_count + ?) / (rating_count + 1)", float64(score)),
				"rating_count":   gorm.Expr("rating_count + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Create(&models.Rating{UserID: userID, ArticleID: id, Value: score}).Error
	})
	return applied, err
}

func (r *articleRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Article{}, id)
	return result.RowsAffected > 0, result.Error
}
