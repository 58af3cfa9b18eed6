package repositories

import (
	"github.com/cloudvorkala/SPEED/models"

	"gorm.io/gorm"
)

type EvidenceRepository interface {
	Create(evidence *models.Evidence) error
	GetByID(id uint) (*models.Evidence, error)
	GetList(filter models.EvidenceFilter) ([]models.Evidence, error)
	Count() (int64, error)
	CountResultsByClaim(practiceID uint) (map[uint]map[models.EvidenceResult]int64, error)
	Update(evidence *models.Evidence) error
	Delete(id uint) (bool, error)
}

type evidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(evidence *models.Evidence) error {
	return r.db.Create(evidence).Error
}

func (r *evidenceRepository) GetByID(id uint) (*models.Evidence, error) {
	var evidence models.Evidence
	err := r.db.Preload("Article").Preload("Claim").First(&evidence, id).Error
	return &evidence, err
}

func (r *evidenceRepository) GetList(filter models.EvidenceFilter) ([]models.Evidence, error) {
	var evidence []models.Evidence

	query := r.db.Model(&models.Evidence{}).Preload("Article").Preload("Claim")

	if filter.ArticleID > 0 {
		query = query.Where("evidence.article_id = ?", filter.ArticleID)
	}

	if filter.ClaimID > 0 {
		query = query.Where("evidence.claim_id = ?", filter.ClaimID)
	}

	if filter.PracticeID > 0 {
		query = query.Joins("JOIN claims ON claims.id = evidence.claim_id").
			Where("claims.practice_id = ?", filter.PracticeID)
	}

	if filter.StartYear > 0 || filter.EndYear > 0 {
		query = query.Joins("JOIN articles ON articles.id = evidence.article_id")
		if filter.StartYear > 0 {
			query = query.Where("articles.year >= ?", filter.StartYear)
		}
		if filter.EndYear > 0 {
			query = query.Where("articles.year <= ?", filter.EndYear)
		}
	}

	err := query.Order("evidence.id asc").Find(&evidence).Error
	return evidence, err
}

func (r *evidenceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Evidence{}).Count(&count).Error
	return count, err
}

// CountResultsByClaim tallies evidence results for every claim of a practice.
func (r *evidenceRepository) CountResultsByClaim(practiceID uint) (map[uint]map[models.EvidenceResult]int64, error) {
	var results []struct {
		ClaimID uint
		Result  models.EvidenceResult
		Count   int64
	}

	query := `
		SELECT
			evidence.claim_id,
			evidence.result,
			COUNT(*) as count
		FROM evidence
		JOIN claims ON claims.id = evidence.claim_id
		WHERE claims.practice_id = ?
		GROUP BY evidence.claim_id, evidence.result
	`

	if err := r.db.Raw(query, practiceID).Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]map[models.EvidenceResult]int64)
	for _, result := range results {
		if counts[result.ClaimID] == nil {
			counts[result.ClaimID] = make(map[models.EvidenceResult]int64)
		}
		counts[result.ClaimID][result.Result] = result.Count
	}
	return counts, nil
}

func (r *evidenceRepository) Update(evidence *models.Evidence) error {
	return r.db.Omit("Article", "Claim").Save(evidence).Error
}

func (r *evidenceRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Evidence{}, id)
	return result.RowsAffected > 0, result.Error
}
