package repositories

import (
	"github.com/cloudvorkala/SPEED/models"

	"gorm.io/gorm"
)

type PracticeRepository interface {
	Create(practice *models.Practice) error
	GetByID(id uint) (*models.Practice, error)
	GetByName(name string) (*models.Practice, error)
	GetAll() ([]models.Practice, error)
	Count() (int64, error)
	Update(practice *models.Practice) error
	Delete(id uint) (bool, error)
}

type practiceRepository struct {
	db *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) Create(practice *models.Practice) error {
	return r.db.Create(practice).Error
}

func (r *practiceRepository) GetByID(id uint) (*models.Practice, error) {
	var practice models.Practice
	err := r.db.Preload("Claims", func(db *gorm.DB) *gorm.DB {
		return db.Order("claims.id asc")
	}).First(&practice, id).Error
	return &practice, err
}

func (r *practiceRepository) GetByName(name string) (*models.Practice, error) {
	var practice models.Practice
	err := r.db.Where("name = ?", name).First(&practice).Error
	return &practice, err
}

func (r *practiceRepository) GetAll() ([]models.Practice, error) {
	var practices []models.Practice
	err := r.db.Order("name asc").Find(&practices).Error
	return practices, err
}

func (r *practiceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Practice{}).Count(&count).Error
	return count, err
}

func (r *practiceRepository) Update(practice *models.Practice) error {
	return r.db.Omit("Claims").Save(practice).Error
}

func (r *practiceRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Practice{}, id)
	return result.RowsAffected > 0, result.Error
}
