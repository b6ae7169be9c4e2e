package repository

import (
	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// ReviewRepository определяет методы для работы с отзывами
type ReviewRepository interface {
	Create(review *entity.Review) error
	GetByID(id uint) (*entity.Review, error)
	List(limit, offset int) ([]entity.Review, int64, error)
	Update(review *entity.Review) error
	Delete(id uint) error
}
