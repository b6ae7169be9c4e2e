package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bookcatalog-api/internal/handler/dto"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
	"github.com/yourusername/bookcatalog-api/internal/service"
)

// FavoriteHandler обрабатывает запросы избранных книг пользователя
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	bookService     *service.BookService
}

// NewFavoriteHandler создает новый обработчик избранного
func NewFavoriteHandler(favoriteService *service.FavoriteService, bookService *service.BookService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		bookService:     bookService,
	}
}

// AddToFavorites добавляет книгу в избранное текущего пользователя.
// Повторное добавление не является ошибкой: возвращается 200 вместо 201.
func (h *FavoriteHandler) AddToFavorites(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	bookID := c.MustGet("bookID").(uint)

	created, err := h.favoriteService.Add(userID, bookID)
	if err != nil {
		h.handleFavoriteError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Book added to favorites successfully."})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Book is already in favorites."})
	}
}

// RemoveFromFavorites удаляет книгу из избранного текущего пользователя
func (h *FavoriteHandler) RemoveFromFavorites(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	bookID := c.MustGet("bookID").(uint)

	if err := h.favoriteService.Remove(userID, bookID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book is not in favorites."})
			return
		}
		h.handleFavoriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FavoritesBookList возвращает пагинированный список избранных книг пользователя
func (h *FavoriteHandler) FavoritesBookList(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, limit, offset := parsePagination(c)

	books, total, err := h.favoriteService.ListBooks(userID, limit, offset)
	if err != nil {
		h.handleFavoriteError(c, err)
		return
	}

	results := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		rating, err := h.bookService.AverageRating(books[i].ID)
		if err != nil {
			log.Printf("[FavoriteHandler] Ошибка вычисления рейтинга книги ID=%d: %v", books[i].ID, err)
		}
		results = append(results, dto.NewBookResponse(&books[i], rating))
	}

	c.JSON(http.StatusOK, dto.PaginatedBooksResponse{
		Results: results,
		Total:   total,
		Page:    page,
		PerPage: limit,
	})
}

// handleFavoriteError преобразует ошибки сервиса в HTTP-статусы
func (h *FavoriteHandler) handleFavoriteError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in FavoriteHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
