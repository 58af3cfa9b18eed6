package repositories

import (
	"github.com/cloudvorkala/SPEED/models"

	"gorm.io/gorm"
)

type SavedQueryRepository interface {
	Create(query *models.SavedQuery) error
	GetByID(id uint) (*models.SavedQuery, error)
	GetByUser(userID uint) ([]models.SavedQuery, error)
	Delete(id, userID uint) (bool, error)
}

type savedQueryRepository struct {
	db *gorm.DB
}

func NewSavedQueryRepository(db *gorm.DB) SavedQueryRepository {
	return &savedQueryRepository{db: db}
}

func (r *savedQueryRepository) Create(query *models.SavedQuery) error {
	return r.db.Create(query).Error
}

func (r *savedQueryRepository) GetByID(id uint) (*models.SavedQuery, error) {
	var query models.SavedQuery
	err := r.db.First(&query, id).Error
	return &query, err
}

func (r *savedQueryRepository) GetByUser(userID uint) ([]models.SavedQuery, error) {
	var queries []models.SavedQuery
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&queries).Error
	return queries, err
}

func (r *savedQueryRepository) Delete(id, userID uint) (bool, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.SavedQuery{}, id)
	return result.RowsAffected > 0, result.Error
}
