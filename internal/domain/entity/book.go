package entity

import "time"

// Genre представляет жанр книги
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// TableName определяет имя таблицы для GORM
func (Genre) TableName() string {
	return "genres"
}

// Author представляет автора книги
type Author struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// TableName определяет имя таблицы для GORM
func (Author) TableName() string {
	return "authors"
}

// Book представляет книгу каталога.
// Средний рейтинг — производное значение, вычисляется по отзывам
// и кешируется, но не хранится в таблице.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:100;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	PublicationDate time.Time `gorm:"type:date;not null" json:"publication_date"`
	GenreID         uint      `gorm:"not null;index" json:"genre_id"`
	AuthorID        uint      `gorm:"not null;index" json:"author_id"`

	Genre   Genre    `gorm:"foreignKey:GenreID" json:"genre"`
	Author  Author   `gorm:"foreignKey:AuthorID" json:"author"`
	Reviews []Review `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Book) TableName() string {
	return "books"
}
