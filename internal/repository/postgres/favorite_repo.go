package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// FavoriteRepo реализует repository.FavoriteRepository
type FavoriteRepo struct {
	db *gorm.DB
}

// NewFavoriteRepo создает новый репозиторий избранного
func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add добавляет пару (user, book).
// Уникальный индекс idx_favorite_user_book гарантирует max 1 запись на пару:
// - 23505 (unique violation) → пара уже существует
func (r *FavoriteRepo) Add(favorite *entity.FavoriteBook) error {
	err := r.db.Create(favorite).Error
	if err != nil {
		// Проверяем unique violation (23505) от обоих драйверов
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// Remove удаляет пару (user, book)
func (r *FavoriteRepo) Remove(userID, bookID uint) error {
	result := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entity.FavoriteBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListBooks возвращает страницу избранных книг пользователя и общее количество
func (r *FavoriteRepo) ListBooks(userID uint, limit, offset int) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	base := r.db.Model(&entity.Book{}).
		Joins("JOIN favorite_books ON favorite_books.book_id = books.id").
		Where("favorite_books.user_id = ?", userID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Model(&entity.Book{}).
		Joins("JOIN favorite_books ON favorite_books.book_id = books.id").
		Where("favorite_books.user_id = ?", userID).
		Preload("Genre").
		Preload("Author").
		Order("favorite_books.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}
