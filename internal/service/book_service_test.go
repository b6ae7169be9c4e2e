package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ============================================================================
// Моки для BookService
// ============================================================================

// MockBookRepository реализует repository.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(book *entity.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(id uint) (*entity.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) GetWithReviews(id uint) (*entity.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) List(filter repository.BookFilter, limit, offset int) ([]entity.Book, int64, error) {
	args := m.Called(filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) Update(book *entity.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBookRepository) AverageRating(bookID uint) (float64, error) {
	args := m.Called(bookID)
	return args.Get(0).(float64), args.Error(1)
}

// MockGenreRepository реализует repository.GenreRepository
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) GetOrCreateByName(name string) (*entity.Genre, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Genre), args.Error(1)
}

func (m *MockGenreRepository) List() ([]entity.Genre, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Genre), args.Error(1)
}

// MockAuthorRepository реализует repository.AuthorRepository
type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) GetOrCreateByName(name string) (*entity.Author, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Author), args.Error(1)
}

func (m *MockAuthorRepository) List() ([]entity.Author, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Author), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// ============================================================================
// Хелперы
// ============================================================================

func createTestBookService(
	bookRepo *MockBookRepository,
	genreRepo *MockGenreRepository,
	authorRepo *MockAuthorRepository,
	cacheRepo *MockCacheRepository,
) *BookService {
	return &BookService{
		bookRepo:   bookRepo,
		genreRepo:  genreRepo,
		authorRepo: authorRepo,
		cacheRepo:  cacheRepo,
	}
}

// ============================================================================
// Тесты для BookService
// ============================================================================

func TestBookService_AverageRating_CacheHit(t *testing.T) {
	// Arrange: рейтинг уже в кеше, репозиторий не должен вызываться
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)
	cacheRepo.On("Get", "book_average_rating_1").Return("4.5", nil)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	// Act
	rating, err := bookService.AverageRating(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating)
	bookRepo.AssertNotCalled(t, "AverageRating")
}

func TestBookService_AverageRating_CacheMissRecomputes(t *testing.T) {
	// Arrange: промах кеша — пересчет по отзывам и запись в кеш на 60 секунд
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "book_average_rating_1").Return("", apperrors.ErrNotFound)
	bookRepo.On("AverageRating", uint(1)).Return(4.0, nil)
	cacheRepo.On("Set", "book_average_rating_1", "4", 60*time.Second).Return(nil)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	// Act
	rating, err := bookService.AverageRating(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.0, rating)
	bookRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestBookService_AverageRating_NoReviewsIsZero(t *testing.T) {
	// Arrange: без отзывов репозиторий возвращает 0
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "book_average_rating_2").Return("", apperrors.ErrNotFound)
	bookRepo.On("AverageRating", uint(2)).Return(0.0, nil)
	cacheRepo.On("Set", "book_average_rating_2", "0", 60*time.Second).Return(nil)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	// Act
	rating, err := bookService.AverageRating(2)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)
}

func TestBookService_AverageRating_RoundsToTwoDecimals(t *testing.T) {
	// Arrange: [4,4,5] -> 4.333... -> 4.33
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "book_average_rating_3").Return("", apperrors.ErrNotFound)
	bookRepo.On("AverageRating", uint(3)).Return(4.333333333333333, nil)
	cacheRepo.On("Set", "book_average_rating_3", "4.33", 60*time.Second).Return(nil)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	// Act
	rating, err := bookService.AverageRating(3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4.33, rating)
}

func TestBookService_AverageRating_CacheWriteFailureIsNotFatal(t *testing.T) {
	// Ошибка записи в кеш не должна проваливать запрос
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("Get", "book_average_rating_1").Return("", apperrors.ErrNotFound)
	bookRepo.On("AverageRating", uint(1)).Return(3.5, nil)
	cacheRepo.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	rating, err := bookService.AverageRating(1)

	require.NoError(t, err)
	assert.Equal(t, 3.5, rating)
}

func TestBookService_CreateBook_Success(t *testing.T) {
	// Arrange
	bookRepo := new(MockBookRepository)
	genreRepo := new(MockGenreRepository)
	authorRepo := new(MockAuthorRepository)
	cacheRepo := new(MockCacheRepository)

	genre := &entity.Genre{ID: 1, Name: "Фантастика"}
	author := &entity.Author{ID: 2, Name: "Станислав Лем"}

	genreRepo.On("GetOrCreateByName", "Фантастика").Return(genre, nil)
	authorRepo.On("GetOrCreateByName", "Станислав Лем").Return(author, nil)
	bookRepo.On("Create", mock.AnythingOfType("*entity.Book")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Book).ID = 10
	}).Return(nil)
	bookRepo.On("AverageRating", uint(10)).Return(0.0, nil)
	cacheRepo.On("Set", "book_average_rating_10", "0", 60*time.Second).Return(nil)

	bookService := createTestBookService(bookRepo, genreRepo, authorRepo, cacheRepo)

	// Act
	book, err := bookService.CreateBook(BookInput{
		Title:           "Солярис",
		Description:     "Роман о контакте",
		PublicationDate: time.Date(1961, 6, 1, 0, 0, 0, 0, time.UTC),
		GenreName:       "Фантастика",
		AuthorName:      "Станислав Лем",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(10), book.ID)
	assert.Equal(t, uint(1), book.GenreID)
	assert.Equal(t, uint(2), book.AuthorID)
	assert.Equal(t, "Фантастика", book.Genre.Name)
	bookRepo.AssertExpectations(t)
}

func TestBookService_CreateBook_MissingTitle(t *testing.T) {
	// Arrange
	bookRepo := new(MockBookRepository)
	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), new(MockCacheRepository))

	// Act
	book, err := bookService.CreateBook(BookInput{
		Description:     "Без названия",
		PublicationDate: time.Now(),
		GenreName:       "Жанр",
		AuthorName:      "Автор",
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, book)
	bookRepo.AssertNotCalled(t, "Create")
}

func TestBookService_DeleteBook_DropsCachedRating(t *testing.T) {
	// Arrange
	bookRepo := new(MockBookRepository)
	cacheRepo := new(MockCacheRepository)

	bookRepo.On("Delete", uint(4)).Return(nil)
	cacheRepo.On("Delete", "book_average_rating_4").Return(nil)

	bookService := createTestBookService(bookRepo, new(MockGenreRepository), new(MockAuthorRepository), cacheRepo)

	// Act
	err := bookService.DeleteBook(4)

	// Assert
	require.NoError(t, err)
	cacheRepo.AssertExpectations(t)
}

func TestBookService_ListGenres(t *testing.T) {
	// Arrange
	genreRepo := new(MockGenreRepository)
	genreRepo.On("List").Return([]entity.Genre{
		{ID: 1, Name: "Фантастика"},
		{ID: 2, Name: "Роман"},
	}, nil)

	bookService := createTestBookService(new(MockBookRepository), genreRepo, new(MockAuthorRepository), new(MockCacheRepository))

	// Act
	genres, err := bookService.ListGenres()

	// Assert
	require.NoError(t, err)
	assert.Len(t, genres, 2)
	genreRepo.AssertExpectations(t)
}

func TestBookService_ListAuthors(t *testing.T) {
	// Arrange
	authorRepo := new(MockAuthorRepository)
	authorRepo.On("List").Return([]entity.Author{{ID: 1, Name: "Станислав Лем"}}, nil)

	bookService := createTestBookService(new(MockBookRepository), new(MockGenreRepository), authorRepo, new(MockCacheRepository))

	// Act
	authors, err := bookService.ListAuthors()

	// Assert
	require.NoError(t, err)
	assert.Len(t, authors, 1)
	authorRepo.AssertExpectations(t)
}
