package dto

import (
	"time"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// GenreResponse представляет жанр в формате для ответа клиенту
type GenreResponse struct {
	Name string `json:"name"`
}

// AuthorResponse представляет автора в формате для ответа клиенту
type AuthorResponse struct {
	Name string `json:"name"`
}

// BookResponse представляет книгу в списке (краткая форма)
type BookResponse struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Genre         GenreResponse  `json:"genre"`
	Author        AuthorResponse `json:"author"`
	AverageRating float64        `json:"average_rating"`
}

// ReviewByUserResponse представляет автора отзыва (только email)
type ReviewByUserResponse struct {
	Email string `json:"email"`
}

// ReviewDetailResponse представляет отзыв внутри детальной карточки книги
type ReviewDetailResponse struct {
	User    ReviewByUserResponse `json:"user"`
	Rating  int                  `json:"rating"`
	Comment string               `json:"comment"`
}

// BookDetailResponse представляет детальную карточку книги с отзывами
type BookDetailResponse struct {
	BookResponse
	Description     string                 `json:"description"`
	PublicationDate string                 `json:"publication_date"`
	Reviews         []ReviewDetailResponse `json:"reviews"`
}

// ReviewResponse представляет отзыв в list/create/detail операциях
type ReviewResponse struct {
	ID      uint   `json:"id"`
	Book    uint   `json:"book"`
	User    uint   `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// PaginatedBooksResponse представляет пагинированный список книг
type PaginatedBooksResponse struct {
	Results []BookResponse `json:"results"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// PaginatedReviewsResponse представляет пагинированный список отзывов
type PaginatedReviewsResponse struct {
	Results []ReviewResponse `json:"results"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// NewBookResponse создает DTO для книги в списке
func NewBookResponse(book *entity.Book, averageRating float64) BookResponse {
	return BookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Genre:         GenreResponse{Name: book.Genre.Name},
		Author:        AuthorResponse{Name: book.Author.Name},
		AverageRating: averageRating,
	}
}

// NewBookDetailResponse создает DTO для детальной карточки книги
func NewBookDetailResponse(book *entity.Book, averageRating float64) *BookDetailResponse {
	reviews := make([]ReviewDetailResponse, 0, len(book.Reviews))
	for _, review := range book.Reviews {
		reviews = append(reviews, ReviewDetailResponse{
			User:    ReviewByUserResponse{Email: review.User.Email},
			Rating:  review.Rating,
			Comment: review.Comment,
		})
	}

	return &BookDetailResponse{
		BookResponse:    NewBookResponse(book, averageRating),
		Description:     book.Description,
		PublicationDate: book.PublicationDate.Format("2006-01-02"),
		Reviews:         reviews,
	}
}

// NewReviewResponse создает DTO для отзыва
func NewReviewResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		Book:    review.BookID,
		User:    review.UserID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}
}

// DateOnly парсит дату формата YYYY-MM-DD; пустая строка дает nil
func DateOnly(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
