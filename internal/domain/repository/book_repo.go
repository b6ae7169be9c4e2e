package repository

import (
	"time"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// BookFilter описывает фильтры списка книг.
// Все поля опциональны; nil/пустое значение означает отсутствие фильтра.
type BookFilter struct {
	// GenreName — точное совпадение имени жанра (без учета регистра)
	GenreName string
	// AuthorName — точное совпадение имени автора (без учета регистра)
	AuthorName string
	// PublicationDateAfter/Before — включительный диапазон дат публикации
	PublicationDateAfter  *time.Time
	PublicationDateBefore *time.Time
}

// BookRepository определяет методы для работы с каталогом книг
type BookRepository interface {
	Create(book *entity.Book) error
	GetByID(id uint) (*entity.Book, error)
	// GetWithReviews возвращает книгу вместе с жанром, автором и отзывами
	GetWithReviews(id uint) (*entity.Book, error)
	// List возвращает страницу книг c жанром и автором и общее количество
	List(filter BookFilter, limit, offset int) ([]entity.Book, int64, error)
	Update(book *entity.Book) error
	Delete(id uint) error
	// AverageRating вычисляет средний рейтинг книги по текущим отзывам
	AverageRating(bookID uint) (float64, error)
}

// GenreRepository определяет методы для работы с жанрами
type GenreRepository interface {
	GetOrCreateByName(name string) (*entity.Genre, error)
	List() ([]entity.Genre, error)
}

// AuthorRepository определяет методы для работы с авторами
type AuthorRepository interface {
	GetOrCreateByName(name string) (*entity.Author, error)
	List() ([]entity.Author, error)
}
