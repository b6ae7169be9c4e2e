package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// GenreRepo реализует repository.GenreRepository
type GenreRepo struct {
	db *gorm.DB
}

// NewGenreRepo создает новый репозиторий жанров
func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// GetOrCreateByName возвращает жанр по имени, создавая его при отсутствии
func (r *GenreRepo) GetOrCreateByName(name string) (*entity.Genre, error) {
	var genre entity.Genre
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre = entity.Genre{Name: name}
	if err := r.db.Create(&genre).Error; err != nil {
		// Параллельная вставка того же имени — перечитываем
		if isUniqueViolation(err) {
			if err2 := r.db.Where("LOWER(name) = LOWER(?)", name).First(&genre).Error; err2 == nil {
				return &genre, nil
			}
		}
		return nil, err
	}
	return &genre, nil
}

// List возвращает все жанры
func (r *GenreRepo) List() ([]entity.Genre, error) {
	var genres []entity.Genre
	err := r.db.Order("name").Find(&genres).Error
	return genres, err
}

// AuthorRepo реализует repository.AuthorRepository
type AuthorRepo struct {
	db *gorm.DB
}

// NewAuthorRepo создает новый репозиторий авторов
func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

// GetOrCreateByName возвращает автора по имени, создавая его при отсутствии
func (r *AuthorRepo) GetOrCreateByName(name string) (*entity.Author, error) {
	var author entity.Author
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	author = entity.Author{Name: name}
	if err := r.db.Create(&author).Error; err != nil {
		if isUniqueViolation(err) {
			if err2 := r.db.Where("LOWER(name) = LOWER(?)", name).First(&author).Error; err2 == nil {
				return &author, nil
			}
		}
		return nil, err
	}
	return &author, nil
}

// List возвращает всех авторов
func (r *AuthorRepo) List() ([]entity.Author, error) {
	var authors []entity.Author
	err := r.db.Order("name").Find(&authors).Error
	return authors, err
}
