package repositories

import (
	"github.com/cloudvorkala/SPEED/models"

	"gorm.io/gorm"
)

type ClaimRepository interface {
	Create(claim *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetAll() ([]models.Claim, error)
	GetByPractice(practiceID uint) ([]models.Claim, error)
	Update(claim *models.Claim) error
	Delete(id uint) (bool, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

func (r *claimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.Preload("Practice").First(&claim, id).Error
	return &claim, err
}

func (r *claimRepository) GetAll() ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Order("id asc").Find(&claims).Error
	return claims, err
}

func (r *claimRepository) GetByPractice(practiceID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Where("practice_id = ?", practiceID).Order("id asc").Find(&claims).Error
	return claims, err
}

func (r *claimRepository) Update(claim *models.Claim) error {
	return r.db.Omit("Practice").Save(claim).Error
}

func (r *claimRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Claim{}, id)
	return result.RowsAffected > 0, result.Error
}
