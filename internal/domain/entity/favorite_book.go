package entity

import "time"

// FavoriteBook связывает пользователя и книгу в избранном.
// Пара (user_id, book_id) уникальна — уникальный индекс в БД.
type FavoriteBook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_book" json:"user_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_book" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (FavoriteBook) TableName() string {
	return "favorite_books"
}
