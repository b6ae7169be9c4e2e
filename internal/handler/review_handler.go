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

// ReviewHandler обрабатывает запросы отзывов на книги
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler создает новый обработчик отзывов
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewRequest представляет запрос на создание/полное обновление отзыва
type ReviewRequest struct {
	Book    uint   `json:"book" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=255"`
}

// PatchReviewRequest представляет запрос на частичное обновление отзыва
type PatchReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=255"`
}

// ListReviews возвращает пагинированный список отзывов
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit, offset := parsePagination(c)

	reviews, total, err := h.reviewService.List(limit, offset)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, dto.NewReviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, dto.PaginatedReviewsResponse{
		Results: results,
		Total:   total,
		Page:    page,
		PerPage: limit,
	})
}

// CreateReview создает отзыв от имени текущего пользователя
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Create(userID, service.ReviewInput{
		BookID:  req.Book,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

// GetReview возвращает один отзыв по ID
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID := c.MustGet("reviewID").(uint)

	review, err := h.reviewService.GetByID(reviewID)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

// UpdateReview полностью обновляет отзыв.
// Разрешено только автору отзыва или администратору.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID := c.MustGet("reviewID").(uint)
	userID := c.MustGet("user_id").(uint)
	isAdmin := c.GetBool("is_admin")

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Update(reviewID, userID, isAdmin, service.ReviewInput{
		BookID:  req.Book,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

// PatchReview частично обновляет отзыв (rating и/или comment).
// Разрешено только автору отзыва или администратору.
func (h *ReviewHandler) PatchReview(c *gin.Context) {
	reviewID := c.MustGet("reviewID").(uint)
	userID := c.MustGet("user_id").(uint)
	isAdmin := c.GetBool("is_admin")

	var req PatchReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Patch(reviewID, userID, isAdmin, req.Rating, req.Comment)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

// DeleteReview удаляет отзыв.
// Разрешено только автору отзыва или администратору.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID := c.MustGet("reviewID").(uint)
	userID := c.MustGet("user_id").(uint)
	isAdmin := c.GetBool("is_admin")

	if err := h.reviewService.Delete(reviewID, userID, isAdmin); err != nil {
		h.handleReviewError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleReviewError преобразует ошибки сервиса в HTTP-статусы
func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ReviewHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
