package repository

import (
	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// FavoriteRepository определяет методы для работы с избранными книгами пользователя
type FavoriteRepository interface {
	// Add добавляет пару (user, book); возвращает apperrors.ErrConflict,
	// если пара уже существует (идемпотентность обеспечивается вызывающим кодом).
	Add(favorite *entity.FavoriteBook) error
	// Remove удаляет пару; возвращает apperrors.ErrNotFound, если пары нет.
	Remove(userID, bookID uint) error
	// ListBooks возвращает страницу избранных книг пользователя с жанром
	// и автором и общее количество.
	ListBooks(userID uint, limit, offset int) ([]entity.Book, int64, error)
}
