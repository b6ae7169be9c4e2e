package service

import (
	"errors"
	"fmt"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// FavoriteService ведет реестр избранных книг пользователей
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
}

// NewFavoriteService создает новый сервис избранного
func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	bookRepo repository.BookRepository,
) (*FavoriteService, error) {
	if favoriteRepo == nil {
		return nil, fmt.Errorf("FavoriteRepository is required for FavoriteService")
	}
	if bookRepo == nil {
		return nil, fmt.Errorf("BookRepository is required for FavoriteService")
	}
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
	}, nil
}

// Add добавляет книгу в избранное пользователя.
// Идемпотентна: повторное добавление той же пары возвращает created=false
// без ошибки и без дубликата.
func (s *FavoriteService) Add(userID, bookID uint) (created bool, err error) {
	// Книга должна существовать
	if _, err := s.bookRepo.GetByID(bookID); err != nil {
		return false, err
	}

	favorite := &entity.FavoriteBook{
		UserID: userID,
		BookID: bookID,
	}
	if err := s.favoriteRepo.Add(favorite); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove удаляет книгу из избранного пользователя
func (s *FavoriteService) Remove(userID, bookID uint) error {
	// Книга должна существовать — 404 для несуществующей книги
	if _, err := s.bookRepo.GetByID(bookID); err != nil {
		return err
	}
	return s.favoriteRepo.Remove(userID, bookID)
}

// ListBooks возвращает страницу избранных книг пользователя и общее количество
func (s *FavoriteService) ListBooks(userID uint, limit, offset int) ([]entity.Book, int64, error) {
	return s.favoriteRepo.ListBooks(userID, limit, offset)
}
