package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// BookRepo реализует repository.BookRepository
type BookRepo struct {
	db *gorm.DB
}

// NewBookRepo создает новый репозиторий книг
func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// Create создает новую книгу
func (r *BookRepo) Create(book *entity.Book) error {
	return r.db.Create(book).Error
}

// GetByID возвращает книгу по ID с жанром и автором
func (r *BookRepo) GetByID(id uint) (*entity.Book, error) {
	var book entity.Book
	err := r.db.Preload("Genre").Preload("Author").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetWithReviews возвращает книгу вместе с жанром, автором и отзывами
func (r *BookRepo) GetWithReviews(id uint) (*entity.Book, error) {
	var book entity.Book
	err := r.db.
		Preload("Genre").
		Preload("Author").
		Preload("Reviews").
		Preload("Reviews.User").
		First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// applyFilter строит цепочку предикатов по заданному фильтру.
// Джойны с genres/authors добавляются только когда соответствующий фильтр задан.
func applyFilter(query *gorm.DB, filter repository.BookFilter) *gorm.DB {
	if filter.GenreName != "" {
		query = query.
			Joins("JOIN genres ON genres.id = books.genre_id").
			Where("LOWER(genres.name) = LOWER(?)", filter.GenreName)
	}
	if filter.AuthorName != "" {
		query = query.
			Joins("JOIN authors ON authors.id = books.author_id").
			Where("LOWER(authors.name) = LOWER(?)", filter.AuthorName)
	}
	// Диапазон дат включительный с обеих сторон
	if filter.PublicationDateAfter != nil {
		query = query.Where("books.publication_date >= ?", *filter.PublicationDateAfter)
	}
	if filter.PublicationDateBefore != nil {
		query = query.Where("books.publication_date <= ?", *filter.PublicationDateBefore)
	}
	return query
}

// List возвращает страницу книг c жанром и автором и общее количество
func (r *BookRepo) List(filter repository.BookFilter, limit, offset int) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	countQuery := applyFilter(r.db.Model(&entity.Book{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyFilter(r.db.Model(&entity.Book{}), filter).
		Preload("Genre").
		Preload("Author").
		Order("books.id").
		Limit(limit).
		Offset(offset)

	if err := query.Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Update обновляет книгу
func (r *BookRepo) Update(book *entity.Book) error {
	return r.db.Save(book).Error
}

// Delete удаляет книгу; отзывы и записи избранного каскадно удаляются на уровне БД
func (r *BookRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AverageRating вычисляет средний рейтинг книги по текущим отзывам.
// Возвращает 0 при отсутствии отзывов.
func (r *BookRepo) AverageRating(bookID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&entity.Review{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
