package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ============================================================================
// Моки для FavoriteService
// Используем MockBookRepository из book_service_test.go
// ============================================================================

// MockFavoriteRepository реализует repository.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(favorite *entity.FavoriteBook) error {
	args := m.Called(favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(userID, bookID uint) error {
	args := m.Called(userID, bookID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) ListBooks(userID uint, limit, offset int) ([]entity.Book, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Book), args.Get(1).(int64), args.Error(2)
}

func createTestFavoriteService(favoriteRepo *MockFavoriteRepository, bookRepo *MockBookRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
	}
}

// ============================================================================
// Тесты для FavoriteService
// ============================================================================

func TestFavoriteService_Add_FirstTime(t *testing.T) {
	// Arrange
	favoriteRepo := new(MockFavoriteRepository)
	bookRepo := new(MockBookRepository)

	bookRepo.On("GetByID", uint(1)).Return(&entity.Book{ID: 1}, nil)
	favoriteRepo.On("Add", mock.AnythingOfType("*entity.FavoriteBook")).Return(nil)

	favoriteService := createTestFavoriteService(favoriteRepo, bookRepo)

	// Act
	created, err := favoriteService.Add(9, 1)

	// Assert
	require.NoError(t, err)
	assert.True(t, created, "Первое добавление должно создавать запись")
	favoriteRepo.AssertExpectations(t)
}

func TestFavoriteService_Add_AlreadyInFavorites(t *testing.T) {
	// Повторное добавление идемпотентно: нет ошибки, нет дубликата
	favoriteRepo := new(MockFavoriteRepository)
	bookRepo := new(MockBookRepository)

	bookRepo.On("GetByID", uint(1)).Return(&entity.Book{ID: 1}, nil)
	favoriteRepo.On("Add", mock.AnythingOfType("*entity.FavoriteBook")).Return(apperrors.ErrConflict)

	favoriteService := createTestFavoriteService(favoriteRepo, bookRepo)

	// Act
	created, err := favoriteService.Add(9, 1)

	// Assert
	require.NoError(t, err, "Конфликт уникальности не должен возвращаться как ошибка")
	assert.False(t, created)
}

func TestFavoriteService_Add_UnknownBook(t *testing.T) {
	// Arrange
	favoriteRepo := new(MockFavoriteRepository)
	bookRepo := new(MockBookRepository)
	bookRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	favoriteService := createTestFavoriteService(favoriteRepo, bookRepo)

	// Act
	created, err := favoriteService.Add(9, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.False(t, created)
	favoriteRepo.AssertNotCalled(t, "Add")
}

func TestFavoriteService_Remove_Success(t *testing.T) {
	// Arrange
	favoriteRepo := new(MockFavoriteRepository)
	bookRepo := new(MockBookRepository)

	bookRepo.On("GetByID", uint(1)).Return(&entity.Book{ID: 1}, nil)
	favoriteRepo.On("Remove", uint(9), uint(1)).Return(nil)

	favoriteService := createTestFavoriteService(favoriteRepo, bookRepo)

	// Act
	err := favoriteService.Remove(9, 1)

	// Assert
	require.NoError(t, err)
	favoriteRepo.AssertExpectations(t)
}

func TestFavoriteService_Remove_NotInFavorites(t *testing.T) {
	// Arrange: книга существует, но пары в избранном нет
	favoriteRepo := new(MockFavoriteRepository)
	bookRepo := new(MockBookRepository)

	bookRepo.On("GetByID", uint(1)).Return(&entity.Book{ID: 1}, nil)
	favoriteRepo.On("Remove", uint(9), uint(1)).Return(apperrors.ErrNotFound)

	favoriteService := createTestFavoriteService(favoriteRepo, bookRepo)

	// Act
	err := favoriteService.Remove(9, 1)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFavoriteService_ListBooks(t *testing.T) {
	// Arrange
	favoriteRepo := new(MockFavoriteRepository)
	books := []entity.Book{
		{ID: 1, Title: "Солярис"},
		{ID: 2, Title: "Пикник на обочине"},
	}
	favoriteRepo.On("ListBooks", uint(9), 10, 0).Return(books, int64(2), nil)

	favoriteService := createTestFavoriteService(favoriteRepo, new(MockBookRepository))

	// Act
	result, total, err := favoriteService.ListBooks(9, 10, 0)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), total)
}
