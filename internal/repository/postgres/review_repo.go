package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ReviewRepo реализует repository.ReviewRepository
type ReviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo создает новый репозиторий отзывов
func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create создает новый отзыв
func (r *ReviewRepo) Create(review *entity.Review) error {
	return r.db.Create(review).Error
}

// GetByID возвращает отзыв по ID
func (r *ReviewRepo) GetByID(id uint) (*entity.Review, error) {
	var review entity.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// List возвращает страницу отзывов и общее количество
func (r *ReviewRepo) List(limit, offset int) ([]entity.Review, int64, error) {
	var reviews []entity.Review
	var total int64

	if err := r.db.Model(&entity.Review{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// Update обновляет отзыв
func (r *ReviewRepo) Update(review *entity.Review) error {
	return r.db.Save(review).Error
}

// Delete удаляет отзыв
func (r *ReviewRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
