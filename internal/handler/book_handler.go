package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	"github.com/yourusername/bookcatalog-api/internal/handler/dto"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
	"github.com/yourusername/bookcatalog-api/internal/service"
)

// BookHandler обрабатывает запросы каталога книг
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler создает новый обработчик каталога
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// BookRequest представляет запрос на создание/обновление книги
type BookRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=100"`
	Description     string `json:"description" binding:"required"`
	PublicationDate string `json:"publication_date" binding:"required"`
	GenreName       string `json:"genre_name" binding:"required,min=1,max=100"`
	AuthorName      string `json:"author_name" binding:"required,min=1,max=100"`
}

// ListBooks возвращает пагинированный список книг с фильтрами:
// genre_name (точное совпадение), author_name (без учета регистра),
// publication_date_after/before (включительно)
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, limit, offset := parsePagination(c)

	dateAfter, err := dto.DateOnly(c.Query("publication_date_after"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publication_date_after must be in YYYY-MM-DD format"})
		return
	}
	dateBefore, err := dto.DateOnly(c.Query("publication_date_before"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publication_date_before must be in YYYY-MM-DD format"})
		return
	}

	filter := repository.BookFilter{
		GenreName:             c.Query("genre_name"),
		AuthorName:            c.Query("author_name"),
		PublicationDateAfter:  dateAfter,
		PublicationDateBefore: dateBefore,
	}

	books, total, err := h.bookService.ListBooks(filter, limit, offset)
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.paginatedBooks(books, total, page, limit))
}

// ListGenres возвращает все жанры каталога
func (h *BookHandler) ListGenres(c *gin.Context) {
	genres, err := h.bookService.ListGenres()
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, genres)
}

// ListAuthors возвращает всех авторов каталога
func (h *BookHandler) ListAuthors(c *gin.Context) {
	authors, err := h.bookService.ListAuthors()
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, authors)
}

// GetBookDetail возвращает детальную карточку книги с отзывами
func (h *BookHandler) GetBookDetail(c *gin.Context) {
	bookID := c.MustGet("bookID").(uint) // Получаем из контекста

	book, err := h.bookService.GetBookDetail(bookID)
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	rating, err := h.bookService.AverageRating(book.ID)
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBookDetailResponse(book, rating))
}

// CreateBook создает книгу (только для администраторов)
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := bookInputFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.CreateBook(input)
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewBookResponse(book, 0))
}

// UpdateBook обновляет книгу (только для администраторов)
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID := c.MustGet("bookID").(uint)

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := bookInputFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.UpdateBook(bookID, input)
	if err != nil {
		h.handleBookError(c, err)
		return
	}

	rating, _ := h.bookService.AverageRating(book.ID)
	c.JSON(http.StatusOK, dto.NewBookResponse(book, rating))
}

// DeleteBook удаляет книгу (только для администраторов)
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID := c.MustGet("bookID").(uint)

	if err := h.bookService.DeleteBook(bookID); err != nil {
		h.handleBookError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ImportBooks создает книги из xlsx-файла (только для администраторов).
// Ожидаемые колонки: title, genre, author, description, publication_date (YYYY-MM-DD).
func (h *BookHandler) ImportBooks(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open uploaded file"})
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid xlsx file"})
		return
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read xlsx rows"})
		return
	}

	imported := 0
	var rowErrors []string
	for i, row := range rows {
		// Первая строка — заголовок
		if i == 0 {
			continue
		}
		if len(row) < 5 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: expected 5 columns", i+1))
			continue
		}

		publicationDate, err := time.Parse("2006-01-02", row[4])
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid publication_date %q", i+1, row[4]))
			continue
		}

		input := service.BookInput{
			Title:           row[0],
			GenreName:       row[1],
			AuthorName:      row[2],
			Description:     row[3],
			PublicationDate: publicationDate,
		}
		if _, err := h.bookService.CreateBook(input); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		imported++
	}

	log.Printf("[BookHandler] Импортировано %d книг из %s (%d ошибок)", imported, fileHeader.Filename, len(rowErrors))

	c.JSON(http.StatusCreated, gin.H{
		"imported": imported,
		"errors":   rowErrors,
	})
}

// paginatedBooks собирает пагинированный ответ, дополняя книги рейтингами
func (h *BookHandler) paginatedBooks(books []entity.Book, total int64, page, limit int) dto.PaginatedBooksResponse {
	results := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		rating, err := h.bookService.AverageRating(books[i].ID)
		if err != nil {
			log.Printf("[BookHandler] Ошибка вычисления рейтинга книги ID=%d: %v", books[i].ID, err)
		}
		results = append(results, dto.NewBookResponse(&books[i], rating))
	}

	return dto.PaginatedBooksResponse{
		Results: results,
		Total:   total,
		Page:    page,
		PerPage: limit,
	}
}

func bookInputFromRequest(req BookRequest) (service.BookInput, error) {
	publicationDate, err := time.Parse("2006-01-02", req.PublicationDate)
	if err != nil {
		return service.BookInput{}, fmt.Errorf("publication_date must be in YYYY-MM-DD format")
	}
	return service.BookInput{
		Title:           req.Title,
		Description:     req.Description,
		PublicationDate: publicationDate,
		GenreName:       req.GenreName,
		AuthorName:      req.AuthorName,
	}, nil
}

// handleBookError преобразует ошибки сервиса в HTTP-статусы
func (h *BookHandler) handleBookError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in BookHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
