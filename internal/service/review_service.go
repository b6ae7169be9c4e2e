package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ReviewInput содержит данные для создания/обновления отзыва
type ReviewInput struct {
	BookID  uint
	Rating  int
	Comment string
}

// ReviewService предоставляет методы для работы с отзывами
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	bookRepo    repository.BookRepository
	bookService *BookService
}

// NewReviewService создает новый сервис отзывов
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	bookService *BookService,
) (*ReviewService, error) {
	if reviewRepo == nil {
		return nil, fmt.Errorf("ReviewRepository is required for ReviewService")
	}
	if bookRepo == nil {
		return nil, fmt.Errorf("BookRepository is required for ReviewService")
	}
	if bookService == nil {
		return nil, fmt.Errorf("BookService is required for ReviewService")
	}
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookRepo:    bookRepo,
		bookService: bookService,
	}, nil
}

// List возвращает страницу отзывов и общее количество
func (s *ReviewService) List(limit, offset int) ([]entity.Review, int64, error) {
	return s.reviewRepo.List(limit, offset)
}

// GetByID возвращает отзыв по ID
func (s *ReviewService) GetByID(id uint) (*entity.Review, error) {
	return s.reviewRepo.GetByID(id)
}

// Create создает отзыв. Рейтинг всегда валидируется в диапазон [1,5]
// до записи в хранилище.
func (s *ReviewService) Create(userID uint, input ReviewInput) (*entity.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	// Книга должна существовать
	if _, err := s.bookRepo.GetByID(input.BookID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		BookID:  input.BookID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Мутация отзывов обновляет кешированный рейтинг книги
	s.bookService.RefreshAverageRating(input.BookID)

	return review, nil
}

// Update обновляет отзыв. Редактировать отзыв может только его автор
// либо администратор.
func (s *ReviewService) Update(reviewID, callerID uint, callerIsAdmin bool, input ReviewInput) (*entity.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID && !callerIsAdmin {
		return nil, fmt.Errorf("%w: only the review author can modify it", apperrors.ErrForbidden)
	}

	if input.BookID != review.BookID {
		// Перенос отзыва на другую книгу обновляет рейтинг обеих
		if _, err := s.bookRepo.GetByID(input.BookID); err != nil {
			return nil, err
		}
	}
	oldBookID := review.BookID

	review.BookID = input.BookID
	review.Rating = input.Rating
	review.Comment = input.Comment

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.bookService.RefreshAverageRating(review.BookID)
	if oldBookID != review.BookID {
		s.bookService.RefreshAverageRating(oldBookID)
	}

	return review, nil
}

// Patch частично обновляет отзыв (только переданные поля)
func (s *ReviewService) Patch(reviewID, callerID uint, callerIsAdmin bool, rating *int, comment *string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID && !callerIsAdmin {
		return nil, fmt.Errorf("%w: only the review author can modify it", apperrors.ErrForbidden)
	}

	if rating != nil {
		if !entity.IsValidRating(*rating) {
			return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, entity.MinRating, entity.MaxRating)
		}
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = *comment
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.bookService.RefreshAverageRating(review.BookID)

	return review, nil
}

// Delete удаляет отзыв. Удалить отзыв может только его автор либо администратор.
func (s *ReviewService) Delete(reviewID, callerID uint, callerIsAdmin bool) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != callerID && !callerIsAdmin {
		return fmt.Errorf("%w: only the review author can delete it", apperrors.ErrForbidden)
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	s.bookService.RefreshAverageRating(review.BookID)

	return nil
}

func validateReviewInput(input ReviewInput) error {
	if input.BookID == 0 {
		return fmt.Errorf("%w: book is required", apperrors.ErrValidation)
	}
	if !entity.IsValidRating(input.Rating) {
		return fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, entity.MinRating, entity.MaxRating)
	}
	if strings.TrimSpace(input.Comment) == "" {
		return fmt.Errorf("%w: comment is required", apperrors.ErrValidation)
	}
	return nil
}
