package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ratingCacheTTL — время жизни кешированного среднего рейтинга
const ratingCacheTTL = 60 * time.Second

// ratingCacheKey формирует ключ кеша среднего рейтинга книги
func ratingCacheKey(bookID uint) string {
	return fmt.Sprintf("book_average_rating_%d", bookID)
}

// BookInput содержит данные для создания/обновления книги
type BookInput struct {
	Title           string
	Description     string
	PublicationDate time.Time
	GenreName       string
	AuthorName      string
}

// BookService предоставляет методы для работы с каталогом книг
// и агрегацией рейтингов
type BookService struct {
	bookRepo   repository.BookRepository
	genreRepo  repository.GenreRepository
	authorRepo repository.AuthorRepository
	cacheRepo  repository.CacheRepository
}

// NewBookService создает новый сервис каталога
func NewBookService(
	bookRepo repository.BookRepository,
	genreRepo repository.GenreRepository,
	authorRepo repository.AuthorRepository,
	cacheRepo repository.CacheRepository,
) (*BookService, error) {
	if bookRepo == nil {
		return nil, fmt.Errorf("BookRepository is required for BookService")
	}
	if genreRepo == nil {
		return nil, fmt.Errorf("GenreRepository is required for BookService")
	}
	if authorRepo == nil {
		return nil, fmt.Errorf("AuthorRepository is required for BookService")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for BookService")
	}
	return &BookService{
		bookRepo:   bookRepo,
		genreRepo:  genreRepo,
		authorRepo: authorRepo,
		cacheRepo:  cacheRepo,
	}, nil
}

// ListBooks возвращает страницу книг по фильтру и общее количество
func (s *BookService) ListBooks(filter repository.BookFilter, limit, offset int) ([]entity.Book, int64, error) {
	return s.bookRepo.List(filter, limit, offset)
}

// ListGenres возвращает все жанры каталога
func (s *BookService) ListGenres() ([]entity.Genre, error) {
	return s.genreRepo.List()
}

// ListAuthors возвращает всех авторов каталога
func (s *BookService) ListAuthors() ([]entity.Author, error) {
	return s.authorRepo.List()
}

// GetBookDetail возвращает книгу с жанром, автором и отзывами
func (s *BookService) GetBookDetail(id uint) (*entity.Book, error) {
	return s.bookRepo.GetWithReviews(id)
}

// GetBookByID возвращает книгу без отзывов
func (s *BookService) GetBookByID(id uint) (*entity.Book, error) {
	return s.bookRepo.GetByID(id)
}

// CreateBook создает книгу, создавая жанр и автора при необходимости
func (s *BookService) CreateBook(input BookInput) (*entity.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	genre, err := s.genreRepo.GetOrCreateByName(strings.TrimSpace(input.GenreName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve genre: %w", err)
	}
	author, err := s.authorRepo.GetOrCreateByName(strings.TrimSpace(input.AuthorName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	book := &entity.Book{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		PublicationDate: input.PublicationDate,
		GenreID:         genre.ID,
		AuthorID:        author.ID,
	}
	if err := s.bookRepo.Create(book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	book.Genre = *genre
	book.Author = *author

	// Любая мутация книги обновляет кешированный рейтинг
	s.RefreshAverageRating(book.ID)

	return book, nil
}

// UpdateBook обновляет книгу
func (s *BookService) UpdateBook(id uint, input BookInput) (*entity.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	genre, err := s.genreRepo.GetOrCreateByName(strings.TrimSpace(input.GenreName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve genre: %w", err)
	}
	author, err := s.authorRepo.GetOrCreateByName(strings.TrimSpace(input.AuthorName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	book.Title = strings.TrimSpace(input.Title)
	book.Description = input.Description
	book.PublicationDate = input.PublicationDate
	book.GenreID = genre.ID
	book.AuthorID = author.ID
	book.Genre = *genre
	book.Author = *author

	if err := s.bookRepo.Update(book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	s.RefreshAverageRating(book.ID)

	return book, nil
}

// DeleteBook удаляет книгу вместе с кешированным рейтингом
func (s *BookService) DeleteBook(id uint) error {
	if err := s.bookRepo.Delete(id); err != nil {
		return err
	}
	if err := s.cacheRepo.Delete(ratingCacheKey(id)); err != nil {
		log.Printf("[BookService] Ошибка удаления кеша рейтинга книги ID=%d: %v", id, err)
	}
	return nil
}

// AverageRating возвращает средний рейтинг книги с округлением до 2 знаков.
// Читает сквозь кеш: при промахе пересчитывает по отзывам и кеширует на 60 секунд.
// Ошибки кеша деградируют до прямого пересчета и никогда не проваливают запрос.
func (s *BookService) AverageRating(bookID uint) (float64, error) {
	if cached, err := s.cacheRepo.Get(ratingCacheKey(bookID)); err == nil {
		if value, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			return value, nil
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[BookService] Ошибка чтения кеша рейтинга книги ID=%d: %v", bookID, err)
	}

	return s.RefreshAverageRating(bookID)
}

// RefreshAverageRating пересчитывает средний рейтинг по текущим отзывам
// и перезаписывает кеш
func (s *BookService) RefreshAverageRating(bookID uint) (float64, error) {
	avg, err := s.bookRepo.AverageRating(bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	rounded := math.Round(avg*100) / 100

	if err := s.cacheRepo.Set(ratingCacheKey(bookID), strconv.FormatFloat(rounded, 'f', -1, 64), ratingCacheTTL); err != nil {
		log.Printf("[BookService] Ошибка записи кеша рейтинга книги ID=%d: %v", bookID, err)
	}

	return rounded, nil
}

func validateBookInput(input BookInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.GenreName) == "" {
		return fmt.Errorf("%w: genre is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.AuthorName) == "" {
		return fmt.Errorf("%w: author is required", apperrors.ErrValidation)
	}
	if input.PublicationDate.IsZero() {
		return fmt.Errorf("%w: publication_date is required", apperrors.ErrValidation)
	}
	return nil
}
